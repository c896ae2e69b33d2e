package smtp_test

import (
	"crypto/tls"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
)

// fakeServer is a minimal SMTP server that records one transaction per connection.
type fakeServer struct {
	t         *testing.T
	ln        net.Listener
	tlsConfig *tls.Config
	startTLS  bool
	failRcpt  string

	mu       sync.Mutex
	commands []string
	data     []string
	sessions []session
	wg       sync.WaitGroup
}

type session struct {
	from  string
	rcpts []string
	data  string
	auth  string
	tls   bool
}

func newFakeServer(t *testing.T, opts ...func(*fakeServer)) *fakeServer {
	t.Helper()
	return newFakeServerOn(t, "127.0.0.1:0", opts...)
}

// newFakeServerOn listens on addr, which lets tests use a loopback address
// other than the ones net/smtp treats as local.
func newFakeServerOn(t *testing.T, addr string, opts ...func(*fakeServer)) *fakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &fakeServer{t: t, ln: ln}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() {
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeServer) addr() (string, int) {
	a := s.ln.Addr().(*net.TCPAddr)
	return a.IP.String(), a.Port
}

func (s *fakeServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()

	var sess session
	if s.tlsConfig != nil && !s.startTLS {
		tlsConn := tls.Server(conn, s.tlsConfig)
		if err := tlsConn.Handshake(); err != nil {
			return
		}
		conn = tlsConn
		sess.tls = true
	}

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake.test ESMTP ready")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.record(line)
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		switch verb {
		case "EHLO", "HELO":
			ext := []string{"250-fake.test", "250-AUTH PLAIN"}
			if s.startTLS && !sess.tls {
				ext = append(ext, "250-STARTTLS")
			}
			ext = append(ext, "250 OK")
			_ = tp.PrintfLine("%s", strings.Join(ext, "\r\n"))
		case "STARTTLS":
			_ = tp.PrintfLine("220 go ahead")
			tlsConn := tls.Server(conn, s.tlsConfig)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			conn = tlsConn
			tp = textproto.NewConn(conn)
			sess.tls = true
		case "AUTH":
			sess.auth = strings.TrimPrefix(line, "AUTH ")
			_ = tp.PrintfLine("235 authenticated")
		case "MAIL":
			sess.from = extractPath(line)
			_ = tp.PrintfLine("250 OK")
		case "RCPT":
			rcpt := extractPath(line)
			if rcpt == s.failRcpt {
				_ = tp.PrintfLine("550 no such user")
				continue
			}
			sess.rcpts = append(sess.rcpts, rcpt)
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			sess.data = strings.Join(lines, "\r\n")
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			s.finish(sess)
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func (s *fakeServer) record(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, line)
}

func (s *fakeServer) finish(sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
}

func (s *fakeServer) snapshot() ([]string, []session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), append([]session(nil), s.sessions...)
}

func extractPath(line string) string {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return ""
	}
	return line[start+1 : end]
}
