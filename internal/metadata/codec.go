package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// blank separates the prose body of a commit message from its trailer.
const blank = "\n\n"

// documentStart is the YAML document-start marker.
const documentStart = "---"

// wireMetadata mirrors Metadata with the on-the-wire key names. Pointer
// fields distinguish an absent key from a present one.
type wireMetadata struct {
	Type         *Kind   `yaml:"type"`
	PR           *URL    `yaml:"pr"`
	Fixes        []URL   `yaml:"fixes"`
	CoAuthoredBy *string `yaml:"co-authored-by"`
}

// coAuthor encodes a co-author value. Values containing line breaks are
// double-quoted so the trailer never contains a blank line.
type coAuthor string

func (c coAuthor) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(c)}
	if strings.ContainsAny(string(c), "\r\n") {
		node.Style = yaml.DoubleQuotedStyle
	}
	return node, nil
}

// encodeMetadata is the encoding-side twin of wireMetadata.
type encodeMetadata struct {
	Type         Kind      `yaml:"type"`
	PR           *URL      `yaml:"pr"`
	Fixes        []URL     `yaml:"fixes"`
	CoAuthoredBy *coAuthor `yaml:"co-authored-by"`
}

// Locate returns the text after the last blank line of message. ok is false
// when message contains no blank line. The trailer is not trimmed.
func Locate(message string) (trailer string, ok bool) {
	i := strings.LastIndex(message, blank)
	if i < 0 {
		return "", false
	}
	return message[i+len(blank):], true
}

// FromCommit reads the metadata trailer of c.
func FromCommit(c Commit) (Metadata, error) {
	return FromMessage(c.ID(), c.MessageBytes())
}

// FromMessage reads the metadata trailer of a raw commit message. Each
// invalid UTF-8 sequence in raw is replaced with U+FFFD before the trailer
// is located.
//
// It returns *MissingError when the message has no blank line and
// *DeserializeError when the trailer does not decode.
func FromMessage(commitID string, raw []byte) (Metadata, error) {
	message := lossyString(raw)

	trailer, ok := Locate(message)
	if !ok {
		return Metadata{}, &MissingError{CommitID: commitID, Message: message}
	}

	m, err := Decode(trailer)
	if err != nil {
		return Metadata{}, &DeserializeError{CommitID: commitID, Message: message, Err: err}
	}
	return m, nil
}

// Decode parses trailer text into Metadata. The "type" key is required;
// unknown keys, duplicate keys and extra YAML documents are rejected.
func Decode(trailer string) (Metadata, error) {
	dec := yaml.NewDecoder(strings.NewReader(trailer))
	dec.KnownFields(true)

	var w wireMetadata
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return Metadata{}, errors.New("missing field `type`")
		}
		return Metadata{}, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return Metadata{}, err
		}
		return Metadata{}, fmt.Errorf("line %d: trailer must be a single YAML document", extra.Line)
	}

	if w.Type == nil {
		return Metadata{}, errors.New("missing field `type`")
	}
	for i, fix := range w.Fixes {
		if fix.IsZero() {
			return Metadata{}, fmt.Errorf("fixes[%d]: null is not a valid URL", i)
		}
	}

	m := Metadata{
		Kind:         *w.Type,
		PR:           w.PR,
		Fixes:        w.Fixes,
		CoAuthoredBy: w.CoAuthoredBy,
	}
	if m.Fixes == nil {
		m.Fixes = []URL{}
	}
	return m, nil
}

// Encode renders m as a trailer: a leading newline, the YAML body, and a
// trailing newline. It panics if m cannot be encoded, which only happens for
// records with an invalid Kind or a zero URL.
func Encode(m Metadata) string {
	w := encodeMetadata{
		Type:  m.Kind,
		PR:    m.PR,
		Fixes: m.Fixes,
	}
	if w.Fixes == nil {
		w.Fixes = []URL{}
	}
	if m.CoAuthoredBy != nil {
		author := coAuthor(*m.CoAuthoredBy)
		w.CoAuthoredBy = &author
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		panic(fmt.Sprintf("metadata: encoding trailer: %v", err))
	}
	if err := enc.Close(); err != nil {
		panic(fmt.Sprintf("metadata: encoding trailer: %v", err))
	}

	body := strings.TrimSpace(buf.String())
	body = strings.TrimSpace(strings.TrimPrefix(body, documentStart))
	return "\n" + body + "\n"
}

// String implements fmt.Stringer using Encode.
func (m Metadata) String() string {
	return Encode(m)
}
