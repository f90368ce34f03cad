// Package message wraps the MIME parsing library behind the narrow
// set of capabilities the extractor needs: multipart detection,
// attachment classification, filename and content-type access,
// decoded payloads and re-serialization of embedded messages.
package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// ContentTypeEmbedded is the content type of parts that carry a
// nested message instead of a decoded byte payload.
const ContentTypeEmbedded = "message/rfc822"

// Message is a fully materialized message or message part. Bodies are
// decoded at parse time so parts stay valid after the underlying
// stream has advanced.
type Message struct {
	header     gomessage.Header
	multipart  bool
	parts      []*Message
	body       []byte
	payloadErr error
	source     []byte
}

// Load reads the file at path in binary mode and parses it.
func Load(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a message from r. Unknown charsets are tolerated so
// that attachment metadata stays available for messages with exotic
// text bodies.
func Parse(r io.Reader) (*Message, error) {
	e, err := gomessage.Read(r)
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return nil, err
	}
	return fromEntity(e)
}

func fromEntity(e *gomessage.Entity) (*Message, error) {
	m := &Message{header: e.Header}

	if mr := e.MultipartReader(); mr != nil {
		m.multipart = true
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil && !gomessage.IsUnknownCharset(err) {
				return nil, fmt.Errorf("read part %d: %w", len(m.parts), err)
			}
			if p == nil {
				break
			}
			part, err := fromEntity(p)
			if err != nil {
				return nil, err
			}
			m.parts = append(m.parts, part)
		}
		return m, nil
	}

	body, err := io.ReadAll(e.Body)
	if err != nil {
		// Decode failures surface when the payload is requested, so
		// they classify as write errors rather than parse errors.
		m.payloadErr = fmt.Errorf("decode body: %w", err)
	}
	m.body = body
	return m, nil
}

// Multipart reports whether the message is composite.
func (m *Message) Multipart() bool { return m.multipart }

// Parts returns the immediate sub-parts of a multipart message, in
// the order the parser produced them.
func (m *Message) Parts() []*Message { return m.parts }

// Disposition returns the content disposition ("attachment",
// "inline", ...) or the empty string when absent.
func (m *Message) Disposition() string {
	disp, _, _ := m.header.ContentDisposition()
	return disp
}

// ContentType returns the media type, e.g. "application/pdf".
func (m *Message) ContentType() string {
	t, _, _ := m.header.ContentType()
	return t
}

// Filename returns the declared filename from the content disposition
// or, failing that, the content type "name" parameter. The result is
// attacker-influenced and may be empty.
func (m *Message) Filename() string {
	if _, params, err := m.header.ContentDisposition(); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	_, params, _ := m.header.ContentType()
	return params["name"]
}

// Subject returns the Subject header value.
func (m *Message) Subject() string {
	return m.header.Get("Subject")
}

// Attached reports whether the parser identifies this part as an
// attachment: an explicit attachment disposition, or a declared
// filename on a part that is neither a text body candidate nor
// itself multipart.
func (m *Message) Attached() bool {
	if m.Disposition() == "attachment" {
		return true
	}
	if m.multipart || m.Filename() == "" {
		return false
	}
	return !strings.HasPrefix(m.ContentType(), "text/")
}

// Payload returns the decoded body bytes of a leaf part.
func (m *Message) Payload() ([]byte, error) {
	if m.payloadErr != nil {
		return nil, m.payloadErr
	}
	if m.multipart {
		return nil, errors.New("multipart message has no single payload")
	}
	return m.body, nil
}

// Embedded parses the nested message carried by a message/rfc822
// part. The returned message retains its source so it can be
// re-serialized with WriteTo.
func (m *Message) Embedded() (*Message, error) {
	body, err := m.Payload()
	if err != nil {
		return nil, err
	}
	sub, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	sub.source = body
	return sub, nil
}

// WriteTo re-serializes the message in text form using the parsing
// library's writer. Only messages obtained from Embedded retain the
// source needed for this.
func (m *Message) WriteTo(w io.Writer) error {
	if m.source == nil {
		return errors.New("message has no retained source")
	}
	e, err := gomessage.Read(bytes.NewReader(m.source))
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return err
	}
	return e.WriteTo(w)
}
