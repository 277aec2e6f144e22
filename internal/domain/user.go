package domain

type User struct {
	Id           UserId
	Username     Username
	PasswordHash string // hex-encoded argon2id digest
	Salt         []byte
}

// Credentials is a username/password pair as submitted by a client.
// The password never leaves the Secret wrapper except at the hashing site.
type Credentials struct {
	Username Username
	Password Secret
}
