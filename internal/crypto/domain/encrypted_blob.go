package domain

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// BlobVersion is the current wire version of the encrypted blob format.
const BlobVersion byte = 0x01

const (
	// BlobNonceSize is the AEAD nonce size embedded in each blob (96 bits).
	BlobNonceSize = 12

	// blobHeaderSize covers the version byte and the 8-byte creation timestamp.
	blobHeaderSize = 1 + 8

	// blobMinSize is the smallest parseable blob: header, nonce, and the
	// 16-byte authentication tag of an empty plaintext.
	blobMinSize = blobHeaderSize + BlobNonceSize + 16
)

// EncryptedBlob is the self-describing output of authenticated encryption.
//
// Wire layout:
//
//	version (1 byte) | created_at unix seconds (8 bytes, big-endian) | nonce (12 bytes) | ciphertext+tag
//
// The version byte and creation timestamp are bound to the ciphertext as
// additional authenticated data, so rewriting either of them invalidates the
// authentication tag. The embedded timestamp lets decryption optionally
// enforce a maximum blob age.
type EncryptedBlob struct {
	Version    byte
	CreatedAt  time.Time
	Nonce      []byte
	Ciphertext []byte
}

// ParseEncryptedBlob deserializes a blob from its binary representation.
//
// Any structural problem (truncated input, unknown version) is reported as
// ErrDecryptionFailed: a blob that cannot be parsed is indistinguishable from
// one that fails authentication, which keeps the externally visible failure
// mode uniform.
func ParseEncryptedBlob(data []byte) (EncryptedBlob, error) {
	if len(data) < blobMinSize {
		return EncryptedBlob{}, fmt.Errorf("%w: blob too short (%d bytes)", ErrDecryptionFailed, len(data))
	}

	version := data[0]
	if version != BlobVersion {
		return EncryptedBlob{}, fmt.Errorf("%w: unsupported blob version %d", ErrDecryptionFailed, version)
	}

	createdAt := int64(binary.BigEndian.Uint64(data[1:blobHeaderSize]))

	nonce := make([]byte, BlobNonceSize)
	copy(nonce, data[blobHeaderSize:blobHeaderSize+BlobNonceSize])

	ciphertext := make([]byte, len(data)-blobHeaderSize-BlobNonceSize)
	copy(ciphertext, data[blobHeaderSize+BlobNonceSize:])

	return EncryptedBlob{
		Version:    version,
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// Bytes serializes the blob to its binary representation.
//
// This method provides round-trip serialization with ParseEncryptedBlob.
func (eb EncryptedBlob) Bytes() []byte {
	out := make([]byte, 0, blobHeaderSize+len(eb.Nonce)+len(eb.Ciphertext))
	out = append(out, eb.Header()...)
	out = append(out, eb.Nonce...)
	out = append(out, eb.Ciphertext...)
	return out
}

// Header returns the authenticated header (version byte plus creation
// timestamp). It is used as the AAD for the AEAD operation so that header
// tampering is detected during decryption.
func (eb EncryptedBlob) Header() []byte {
	header := make([]byte, blobHeaderSize)
	header[0] = eb.Version
	binary.BigEndian.PutUint64(header[1:], uint64(eb.CreatedAt.Unix()))
	return header
}

// Age returns how old the blob is relative to now, based on its embedded
// creation timestamp. Blobs with a future timestamp report a zero age.
func (eb EncryptedBlob) Age(now time.Time) time.Duration {
	age := now.Sub(eb.CreatedAt)
	if age < 0 {
		return 0
	}
	return age
}

// String returns the base64 encoding of the binary blob, suitable for
// transport in text payloads and environment variables.
func (eb EncryptedBlob) String() string {
	return base64.StdEncoding.EncodeToString(eb.Bytes())
}
