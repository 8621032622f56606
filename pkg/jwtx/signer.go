package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerHS256 creates an HS256 signer from a shared secret.
func NewSignerHS256(secret []byte) (Signer, error) {
	s, err := newHS256Signer(secret)
	if err != nil {
		return nil, err
	}
	return s, nil
}
