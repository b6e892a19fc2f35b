package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_engine_mock.go -package=mock

// Engine performs authenticated encryption and decryption of opaque strings.
// It knows nothing about documents, tables, or the store; its only job is to
// turn plaintext into self-contained ciphertext strings and back.
//
// Implementations derive their symmetric key lazily on first use and cache it
// for the lifetime of the instance. The key never leaves the engine.
type Engine interface {
	// Encrypt authenticates and encrypts plaintext under the engine's key.
	// Every call uses a fresh random nonce, so encrypting the same input
	// twice yields different ciphertexts.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt. Any failure — malformed encoding, wrong key,
	// tampered authentication tag — is reported as a
	// [models.DecryptionError]; the raw cryptographic error is never exposed.
	Decrypt(ciphertext string) (string, error)
}
