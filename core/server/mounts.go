package server

import (
	"fmt"
	"sort"
	"strings"

	"rackhost/core/logger"
	"rackhost/core/options"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MountPathKey is the fiber locals key holding the matched context path.
const MountPathKey = "mount_path"

// NormalizePath canonicalizes a context path: leading slash ensured,
// trailing slash trimmed, empty means root.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(path, "/")
}

// MountHandler registers a handler at a context path. Registration is on
// the server's own mount table, not the engine router, because the engine
// cannot unregister routes once added. Mounting an occupied path fails
// with ErrAlreadyMounted.
func (s *Server) MountHandler(h fiber.Handler, opts options.MountOptions) error {
	if h == nil {
		return fmt.Errorf("mount %q: nil handler", opts.Path)
	}
	path := NormalizePath(opts.Path)

	if opts.Dispatch {
		h = s.wrapDispatch(h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mounts[path]; ok {
		return fmt.Errorf("mount %q: %w", path, ErrAlreadyMounted)
	}
	s.mounts[path] = &mount{path: path, handler: h}
	s.reorderLocked()

	s.logger.Info("application mounted", zap.String("path", path))
	return nil
}

// Unmount removes the handler at a context path. Unmounting an unknown
// path fails with ErrNotMounted; other mounts are unaffected either way.
func (s *Server) Unmount(path string) error {
	path = NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mounts[path]; !ok {
		return fmt.Errorf("unmount %q: %w", path, ErrNotMounted)
	}
	delete(s.mounts, path)
	s.reorderLocked()

	s.logger.Info("application unmounted", zap.String("path", path))
	return nil
}

// Mounts returns the registered context paths, longest first.
func (s *Server) Mounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// dispatch routes a request to the mount with the longest matching context
// path prefix. With no match the request falls through to the engine's
// not-found handling.
func (s *Server) dispatch(c *fiber.Ctx) error {
	m := s.match(c.Path())
	if m == nil {
		return c.Next()
	}
	c.Locals(MountPathKey, m.path)
	return m.handler(c)
}

func (s *Server) match(reqPath string) *mount {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range s.order {
		if path == "/" {
			return s.mounts[path]
		}
		if reqPath == path || strings.HasPrefix(reqPath, path+"/") {
			return s.mounts[path]
		}
	}
	return nil
}

func (s *Server) reorderLocked() {
	s.order = s.order[:0]
	for path := range s.mounts {
		s.order = append(s.order, path)
	}
	sort.Slice(s.order, func(i, j int) bool {
		if len(s.order[i]) != len(s.order[j]) {
			return len(s.order[i]) > len(s.order[j])
		}
		return s.order[i] < s.order[j]
	})
}

// wrapDispatch surrounds an application with the host dispatch chain:
// request logging correlated by request ID. The request ID itself is
// assigned by the global middleware installed in New.
func (s *Server) wrapDispatch(h fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRequestID(s.logger, c)
		l.Info("request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := h(c)
		if err != nil {
			l.Error("request error", zap.Error(err))
		}
		return err
	}
}
