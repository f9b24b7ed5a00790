// Package sigfmt is the binary form of a compiled signature: a canonical CBOR document that
// decodes back into an equal Model and whose digest identifies the signature.
package sigfmt

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/robbyt/go-sigil/internal/helpers"
	"github.com/robbyt/go-sigil/signature"
)

// Version is the document format version written by Encode.
const Version uint8 = 1

var (
	ErrModelNil           = errors.New("signature model is nil")
	ErrUnsupportedVersion = errors.New("unsupported signature document version")
	ErrDecodeFailed       = errors.New("failed to decode signature document")
)

// Document is the serialized form of a Model. Field order and map key order are fixed by
// canonical CBOR, so equal models encode to equal bytes.
type Document struct {
	Version     uint8   `cbor:"1,keyasint"`
	Text        string  `cbor:"2,keyasint,omitempty"`
	Invocant    string  `cbor:"3,keyasint,omitempty"`
	Passthrough bool    `cbor:"4,keyasint,omitempty"`
	Params      []Param `cbor:"5,keyasint"`
}

// Param is one parameter of a Document. Index and Slurpy are derived when decoding.
type Param struct {
	Name     string   `cbor:"1,keyasint"`
	Sigil    uint8    `cbor:"2,keyasint"`
	Named    bool     `cbor:"3,keyasint,omitempty"`
	RefAlias bool     `cbor:"4,keyasint,omitempty"`
	Traits   []string `cbor:"5,keyasint,omitempty"`
	Default  string   `cbor:"6,keyasint,omitempty"`
	Optional bool     `cbor:"7,keyasint,omitempty"`
	Required bool     `cbor:"8,keyasint,omitempty"`
}

// NewDocument captures m.
func NewDocument(m *signature.Model) (*Document, error) {
	if m == nil {
		return nil, ErrModelNil
	}

	doc := &Document{
		Version:     Version,
		Text:        m.Text(),
		Passthrough: m.Passthrough(),
	}
	doc.Invocant, _ = m.Invocant()

	params := m.Params()
	doc.Params = make([]Param, len(params))
	for i, d := range params {
		doc.Params[i] = Param{
			Name:     d.Name,
			Sigil:    uint8(d.Sigil),
			Named:    d.Role == signature.Named,
			RefAlias: d.RefAlias,
			Traits:   d.Traits.Names(),
			Default:  d.Default,
			Optional: d.Optional,
			Required: d.Required,
		}
	}
	return doc, nil
}

// Model rebuilds the signature, revalidating every parameter.
func (doc *Document) Model() (*signature.Model, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	asm := signature.NewAssembler(signature.Options{Invocant: doc.Invocant})
	if doc.Passthrough {
		if err := asm.Add(signature.Descriptor{
			Name: "_", Sigil: signature.Array, Index: -1, Traits: signature.Traits{}, Passthrough: true,
		}); err != nil {
			return nil, err
		}
	}

	for _, p := range doc.Params {
		d := signature.Descriptor{
			Name:     p.Name,
			Sigil:    signature.Sigil(p.Sigil),
			Index:    -1,
			RefAlias: p.RefAlias,
			Traits:   signature.Traits{},
			Default:  p.Default,
			Optional: p.Optional,
			Required: p.Required,
		}
		if p.Named {
			d.Role = signature.Named
		}
		if d.Sigil > signature.Hash {
			return nil, fmt.Errorf("%w: parameter %q has unknown sigil %d", ErrDecodeFailed, p.Name, p.Sigil)
		}
		for _, t := range p.Traits {
			d.Traits[t] = true
		}
		d.Slurpy = d.Sigil != signature.Scalar && !d.RefAlias
		if err := asm.Add(d); err != nil {
			return nil, err
		}
	}

	asm.SetText(doc.Text)
	return asm.Model(), nil
}

// Bytes produces the canonical CBOR encoding of the document. A Document passed to
// cbor.Marshal directly encodes the same fields, without the canonical ordering.
func (doc *Document) Bytes() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Encode returns the canonical CBOR encoding of m.
func Encode(m *signature.Model) ([]byte, error) {
	doc, err := NewDocument(m)
	if err != nil {
		return nil, err
	}
	return doc.Bytes()
}

// Decode reads a document written by Encode and rebuilds its Model.
func Decode(data []byte) (*signature.Model, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return doc.Model()
}

// Digest is the hex BLAKE2b-256 sum of the canonical encoding of m, without its source
// text, so signatures that differ only in layout share a digest.
func Digest(m *signature.Model) (string, error) {
	doc, err := NewDocument(m)
	if err != nil {
		return "", err
	}
	doc.Text = ""
	data, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	return helpers.DigestBytes(data), nil
}
