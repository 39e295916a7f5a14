package mail

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Bytes(t *testing.T) {
	msg := Message{To: "a@example.com", Subject: "Reset Your Password", Body: "Hi Alice,\n123456"}
	out := string(msg.Bytes("noreply@example.com"))

	assert.True(t, strings.HasPrefix(out, "From: noreply@example.com\r\nTo: a@example.com\r\nSubject: Reset Your Password\r\n"))
	assert.Contains(t, out, "\r\n\r\nHi Alice,\r\n123456")
}

func TestLogSender_DoesNotLogBody(t *testing.T) {
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	err := NewLogSender(l).Send(context.Background(), Message{To: "a@example.com", Subject: "s", Body: "secret-123456"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "to=a@example.com")
	assert.NotContains(t, buf.String(), "secret-123456")
}

// fakeSMTP speaks just enough SMTP (no STARTTLS, no AUTH) to accept one message.
func fakeSMTP(t *testing.T) (addr string, received chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	received = make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

		write("220 localhost ESMTP")
		var data strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					received <- data.String()
					write("250 OK")
					continue
				}
				data.WriteString(line)
				continue
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 localhost")
			case strings.HasPrefix(cmd, "MAIL FROM"), strings.HasPrefix(cmd, "RCPT TO"):
				write("250 OK")
			case cmd == "DATA":
				inData = true
				write("354 go ahead")
			case cmd == "QUIT":
				write("221 bye")
				return
			default:
				write("250 OK")
			}
		}
	}()
	return ln.Addr().String(), received
}

func TestSMTPSender_Send(t *testing.T) {
	addr, received := fakeSMTP(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	s := NewSMTPSender(host, port, "", "", "noreply@example.com")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Send(ctx, Message{To: "a@example.com", Subject: "Reset Your Password", Body: "code 123456"}))

	select {
	case got := <-received:
		assert.Contains(t, got, "Subject: Reset Your Password")
		assert.Contains(t, got, "code 123456")
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}

func TestSMTPSender_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	s := NewSMTPSender("127.0.0.1", addr.Port, "", "", "noreply@example.com")
	err = s.Send(context.Background(), Message{To: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp dial")
}
