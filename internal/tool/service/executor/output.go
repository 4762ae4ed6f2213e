package executor

import (
	"bytes"

	"github.com/Cyclone1070/toolgate/internal/tool/helper/content"
)

// TruncationMarker is appended to output that hit the capture limit.
const TruncationMarker = "\n... (output truncated)"

// BinaryPlaceholder replaces a stream whose first bytes look binary.
const BinaryPlaceholder = "[Binary Content]"

// capture keeps the first limit bytes of one output stream. The leading
// sniff window is checked for NUL bytes; a binary stream is dropped.
type capture struct {
	buf    bytes.Buffer
	limit  int
	sniff  int
	seen   int64
	binary bool
}

func newCapture(limit, sniffWindow int) *capture {
	return &capture{limit: limit, sniff: sniffWindow}
}

// Write never fails, so the child never blocks on a full pipe.
func (c *capture) Write(p []byte) (int, error) {
	first := c.seen == 0
	c.seen += int64(len(p))
	if c.binary {
		return len(p), nil
	}

	if c.sniff > 0 {
		if first && content.HasWideBOM(p) {
			c.sniff = 0
		} else {
			window := p[:min(len(p), c.sniff)]
			c.sniff -= len(window)
			if bytes.IndexByte(window, 0) >= 0 {
				c.binary = true
				c.buf.Reset()
				return len(p), nil
			}
		}
	}

	if room := c.limit - c.buf.Len(); room > 0 {
		c.buf.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}

// Truncated reports whether any bytes were dropped.
func (c *capture) Truncated() bool {
	return c.binary || c.seen > int64(c.buf.Len())
}

func (c *capture) String() string {
	switch {
	case c.binary:
		return BinaryPlaceholder
	case c.Truncated():
		return c.buf.String() + TruncationMarker
	default:
		return c.buf.String()
	}
}
