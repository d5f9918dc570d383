package content

import (
	"bytes"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

var delimiter = []byte("---")

// SplitFrontMatter separates the leading "---" delimited YAML block from the body.
func SplitFrontMatter(raw []byte) (front []byte, body string, err error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(raw, append(delimiter, '\n')) {
		return nil, "", errors.Wrap(ErrInvalidMetadata, "missing front matter")
	}
	rest := raw[len(delimiter)+1:]

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		// empty block: "---\n---"
		if bytes.HasPrefix(rest, delimiter) {
			return nil, strings.TrimLeft(string(rest[len(delimiter):]), "\n"), nil
		}
		return nil, "", errors.Wrap(ErrInvalidMetadata, "unterminated front matter")
	}

	front = rest[:end]
	body = string(rest[end+len("\n---"):])
	body = strings.TrimLeft(body, "\n")
	return front, body, nil
}

// ParseTrip decodes trip.mdx content. Title and date must be present.
func ParseTrip(raw []byte) (TripMeta, string, error) {
	front, body, err := SplitFrontMatter(raw)
	if err != nil {
		return TripMeta{}, "", err
	}

	var meta TripMeta
	if err := yaml.Unmarshal(front, &meta); err != nil {
		return TripMeta{}, "", errors.Wrap(ErrInvalidMetadata, err.Error())
	}
	if strings.TrimSpace(meta.Title) == "" || strings.TrimSpace(meta.Date) == "" {
		return TripMeta{}, "", errors.Wrap(ErrInvalidMetadata, "title and date required")
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	meta.Extra = meta.Extra.normalize()
	return meta, body, nil
}

// ParseMember decodes a member .mdx file. Name must be present.
func ParseMember(raw []byte) (Member, string, error) {
	front, body, err := SplitFrontMatter(raw)
	if err != nil {
		return Member{}, "", err
	}

	var m Member
	if err := yaml.Unmarshal(front, &m); err != nil {
		return Member{}, "", errors.Wrap(ErrInvalidMetadata, err.Error())
	}
	if strings.TrimSpace(m.Name) == "" {
		return Member{}, "", errors.Wrap(ErrInvalidMetadata, "name required")
	}
	m.Extra = m.Extra.normalize()
	return m, body, nil
}

// Render produces "---\n<yaml>---\n\n<body>".
func Render(meta any, body string) ([]byte, error) {
	front, err := yaml.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.Write(front)
	buf.Write(delimiter)
	buf.WriteString("\n\n")
	buf.WriteString(strings.TrimLeft(body, "\n"))
	return buf.Bytes(), nil
}
