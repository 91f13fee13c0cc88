package psqlc

import (
	"fmt"
	"strings"
)

// CredentialRecord is the canonical credential identity extracted from a
// configuration artifact. Empty strings and a zero Port mean the field was
// not present. Records are never modified after construction.
type CredentialRecord struct {
	Username string
	Password string
	Database string
	Host     string
	Port     int

	// Source is the artifact path the record was extracted from.
	Source string
}

// IsEmpty reports whether no credential field is populated.
func (r *CredentialRecord) IsEmpty() bool {
	return r == nil || (r.Username == "" && r.Password == "" && r.Database == "" && r.Host == "" && r.Port == 0)
}

// String returns a log-safe representation with the password masked.
func (r *CredentialRecord) String() string {
	if r == nil {
		return "CredentialRecord(<none>)"
	}
	return fmt.Sprintf("CredentialRecord(user=%s, password=%s, database=%s, host=%s, port=%d, source=%s)",
		r.Username, MaskSecret(r.Password), r.Database, r.Host, r.Port, r.Source)
}

// ResolvedConnection holds the final parameters used to open a session.
// It is built once per command by the precedence chain; variants targeting
// another database or carrying an elevated password are copies.
type ResolvedConnection struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	// AuthMethod selects how the password is obtained for this connection.
	AuthMethod AuthMethod

	// AppName is reported to the server as application_name.
	AppName string
}

// WithDatabase returns a copy of the connection targeting database.
func (c ResolvedConnection) WithDatabase(database string) ResolvedConnection {
	c.Database = database
	return c
}

// WithCredentials returns a copy of the connection authenticating as user.
func (c ResolvedConnection) WithCredentials(user, password string) ResolvedConnection {
	c.User = user
	c.Password = password
	c.AuthMethod = AuthMethodPassword
	return c
}

// WithPassword returns a copy of the connection using password with
// standard authentication.
func (c ResolvedConnection) WithPassword(password string) ResolvedConnection {
	c.Password = password
	c.AuthMethod = AuthMethodPassword
	return c
}

// Addr returns host:port.
func (c ResolvedConnection) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String returns a log-safe representation with the password masked.
func (c ResolvedConnection) String() string {
	return fmt.Sprintf("host=%s port=%d user=%s db=%s passwd=%s", c.Host, c.Port, c.User, c.Database, MaskSecret(c.Password))
}

// ArtifactKind identifies the shape of a located configuration artifact.
type ArtifactKind int

const (
	// ArtifactFlatConfig is a flat key/value file (.env, JSON, YAML, TOML).
	ArtifactFlatConfig ArtifactKind = iota
	// ArtifactFrameworkSettings is a Django-style settings module exposing DATABASES.
	ArtifactFrameworkSettings
)

// String returns a human-readable name for the kind.
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactFrameworkSettings:
		return "FrameworkSettings"
	case ArtifactFlatConfig:
		return "FlatConfig"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// SearchArtifact identifies a configuration file found on disk.
type SearchArtifact struct {
	Path string
	Kind ArtifactKind
}

// AuthMethod represents how the administrative session authenticates.
type AuthMethod int

const (
	AuthMethodPassword  AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                      // AWS RDS IAM token
	AuthMethodAzure                       // Azure Entra ID token
	AuthMethodGoogleIAM                   // Google Cloud SQL IAM
)

// String returns the flag spelling of the method.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodPassword:
		return "password"
	case AuthMethodAWSIAM:
		return "aws-iam"
	case AuthMethodAzure:
		return "azure"
	case AuthMethodGoogleIAM:
		return "google"
	default:
		return fmt.Sprintf("AuthMethod(%d)", int(a))
	}
}

// ParseAuthMethod converts a flag or config spelling into an AuthMethod.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "password", "standard":
		return AuthMethodPassword, nil
	case "aws-iam", "aws":
		return AuthMethodAWSIAM, nil
	case "azure", "azure-entra", "entra":
		return AuthMethodAzure, nil
	case "google", "google-iam", "cloudsql":
		return AuthMethodGoogleIAM, nil
	default:
		return AuthMethodPassword, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// MaskSecret replaces a non-empty secret with a fixed mask.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "*****"
}
