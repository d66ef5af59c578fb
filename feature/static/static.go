package static

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"rackhost/core/server"
	"rackhost/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/minio/minio-go/v7"
)

// Local returns a handler serving files from a directory on disk. The
// matched context path is stripped before the lookup, and requests that
// resolve to a directory fall back to index.html.
func Local(root string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel := relPath(c)
		if rel == "" || rel == "/" {
			rel = "/index.html"
		}
		// Clean against the rooted path so ".." cannot escape root.
		file := filepath.Join(root, filepath.FromSlash(path.Clean("/"+rel)))
		if err := c.SendFile(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fiber.ErrNotFound
			}
			return err
		}
		return nil
	}
}

// Bucket returns a handler streaming objects from storage. Keys are the
// request path relative to the mount, under an optional prefix. Missing
// keys become 404; storage failures become 502.
func Bucket(client storage.Client, bucket, prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel := strings.TrimPrefix(relPath(c), "/")
		if rel == "" {
			rel = "index.html"
		}
		key := path.Clean(path.Join(prefix, rel))

		ctx := c.Context()
		info, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if err != nil {
			if minio.ToErrorResponse(err).Code == "NoSuchKey" {
				return fiber.ErrNotFound
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		contentType := info.ContentType
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = utils.GetMIME(strings.TrimPrefix(path.Ext(key), "."))
		}
		if contentType != "" {
			c.Set(fiber.HeaderContentType, contentType)
		}
		return c.SendStream(obj, int(info.Size))
	}
}

// relPath returns the request path with the matched context path removed.
func relPath(c *fiber.Ctx) string {
	p := c.Path()
	if mp, ok := c.Locals(server.MountPathKey).(string); ok && mp != "" && mp != "/" {
		p = strings.TrimPrefix(p, mp)
	}
	return p
}
