package seed

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the bootstrap admin account when it does not exist
// yet. A missing email or password skips seeding entirely.
func EnsureAdmin(db *sqlx.DB, log logrus.FieldLogger, email, password string) {
	if email == "" || password == "" {
		return
	}
	email = strings.ToLower(email)

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE email = ?`, email); err != nil {
		log.WithError(err).Warn("unable to check for bootstrap admin")
		return
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Warn("unable to hash bootstrap admin password")
		return
	}
	if _, err := db.Exec(`INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)`,
		"admin", email, hashed, "admin"); err != nil {
		log.WithError(err).Warn("unable to create bootstrap admin")
		return
	}
	log.WithField("email", email).Info("bootstrap admin created")
}
