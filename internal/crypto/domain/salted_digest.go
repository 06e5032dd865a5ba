package domain

// SaltedDigest holds a fixed-length hash together with the salt used to
// produce it. Identical (data, salt) pairs always hash to the same digest;
// different salts make digests incomparable by inspection.
type SaltedDigest struct {
	Digest []byte
	Salt   []byte
}
