package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/sirupsen/logrus"
)

// ftpConn is the subset of *ftp.ServerConn the store uses.
type ftpConn interface {
	Stor(path string, r io.Reader) error
	Delete(path string) error
	Quit() error
}

// FTPStore keeps evidence images on an FTP server that is also served over
// HTTP at BaseURL. The control connection is opened lazily and re-dialled
// after any failure.
type FTPStore struct {
	addr     string
	user     string
	password string
	dir      string
	baseURL  string
	log      logrus.FieldLogger

	mu   sync.Mutex
	conn ftpConn
	dial func(ctx context.Context) (ftpConn, error)
}

// NewFTPStore creates a store that uploads into dir on host:port.
func NewFTPStore(host, port, user, password, dir, baseURL string, log logrus.FieldLogger) *FTPStore {
	s := &FTPStore{
		addr:     host + ":" + port,
		user:     user,
		password: password,
		dir:      strings.Trim(dir, "/"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log,
	}
	s.dial = s.connect
	return s
}

func (s *FTPStore) connect(ctx context.Context) (ftpConn, error) {
	conn, err := ftp.Dial(s.addr, ftp.DialWithTimeout(10*time.Second), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FTP: %w", err)
	}
	if err := conn.Login(s.user, s.password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("failed to login to FTP: %w", err)
	}
	return conn, nil
}

// withConn runs fn on the shared connection, dropping it when fn fails so
// the next call dials again.
func (s *FTPStore) withConn(ctx context.Context, fn func(ftpConn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, err := s.dial(ctx)
		if err != nil {
			return err
		}
		s.conn = conn
	}

	err := fn(s.conn)
	if err != nil && !isFileUnavailable(err) {
		s.conn.Quit()
		s.conn = nil
	}
	return err
}

func (s *FTPStore) remotePath(filename string) string {
	if s.dir == "" {
		return filename
	}
	return s.dir + "/" + filename
}

// URLFor returns the public URL of filename.
func (s *FTPStore) URLFor(filename string) string {
	return s.baseURL + "/" + s.remotePath(filename)
}

// Upload stores data under filename and returns its public URL.
func (s *FTPStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	remote := s.remotePath(filename)
	err := s.withConn(ctx, func(c ftpConn) error {
		return c.Stor(remote, bytes.NewReader(data))
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", remote, err)
	}
	return s.URLFor(filename), nil
}

// Delete removes the object behind url. URLs outside the store and objects
// that no longer exist are skipped.
func (s *FTPStore) Delete(ctx context.Context, url string) error {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		s.log.WithField("url", url).Warn("URL is not served by this store, skip deleting")
		return nil
	}
	remote := strings.SplitN(strings.TrimPrefix(url, prefix), "?", 2)[0]
	if remote == "" {
		s.log.WithField("url", url).Warn("URL has no object path, skip deleting")
		return nil
	}

	err := s.withConn(ctx, func(c ftpConn) error {
		return c.Delete(remote)
	})
	if isFileUnavailable(err) {
		s.log.WithField("url", url).Info("image already gone from storage")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", remote, err)
	}
	return nil
}

// Close closes the FTP connection
func (s *FTPStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Quit()
	s.conn = nil
	return err
}

func isFileUnavailable(err error) bool {
	var tpErr *textproto.Error
	return errors.As(err, &tpErr) && tpErr.Code == ftp.StatusFileUnavailable
}
