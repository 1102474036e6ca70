// Package network redirects plain HTTP requests arriving on a TLS port to
// their https:// URL.
package network

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// tlsHandshake is the record type byte that starts every TLS connection.
const tlsHandshake = 0x16

// AutoHttpsConn answers a plain HTTP request with a 307 redirect to the same
// URL over https and closes the connection. TLS traffic passes through.
type AutoHttpsConn struct {
	net.Conn

	reader    *bufio.Reader
	checkOnce sync.Once
	checkErr  error
}

// NewAutoHttpsConn wraps conn.
func NewAutoHttpsConn(conn net.Conn) net.Conn {
	return &AutoHttpsConn{
		Conn:   conn,
		reader: bufio.NewReaderSize(conn, 4096),
	}
}

func (c *AutoHttpsConn) check() error {
	first, err := c.reader.Peek(1)
	if err != nil {
		return err
	}
	if first[0] == tlsHandshake {
		return nil
	}

	request, err := http.ReadRequest(c.reader)
	if err != nil {
		c.Conn.Close()
		return err
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", fmt.Sprintf("https://%v%v", request.Host, request.RequestURI))
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	c.Conn.Close()
	return net.ErrClosed
}

// Read returns buffered bytes once the first request was found to be TLS.
func (c *AutoHttpsConn) Read(buf []byte) (int, error) {
	c.checkOnce.Do(func() {
		c.checkErr = c.check()
	})
	if c.checkErr != nil {
		return 0, c.checkErr
	}
	return c.reader.Read(buf)
}

// AutoHttpsListener wraps every accepted connection in an AutoHttpsConn.
type AutoHttpsListener struct {
	net.Listener
}

// NewAutoHttpsListener wraps listener.
func NewAutoHttpsListener(listener net.Listener) net.Listener {
	return &AutoHttpsListener{
		Listener: listener,
	}
}

// Accept implements net.Listener.
func (l *AutoHttpsListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return NewAutoHttpsConn(conn), nil
}
