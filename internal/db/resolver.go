package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/psqlc/internal/config"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// CLIArgs holds connection values from command-line flags. The *Set fields
// record whether the operator supplied the flag explicitly; an unset flag
// still carries its default value.
type CLIArgs struct {
	Host        string
	HostSet     bool
	Port        int
	PortSet     bool
	User        string
	UserSet     bool
	Password    string
	Database    string
	DatabaseSet bool
}

// EnvVars represents the environment overrides psqlc honors.
type EnvVars struct {
	HOST     string
	PORT     string
	USER     string
	PASSWORD string
	DATABASE string
	DB_NAME  string
	DB       string

	AWS_REGION            string
	AZURE_TENANT_ID       string
	AZURE_CLIENT_ID       string
	AZURE_CLIENT_SECRET   string
	PSQLC_GOOGLE_INSTANCE string
}

// LoadFromEnvironment loads connection overrides and cloud provider settings.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		HOST:                  os.Getenv("HOST"),
		PORT:                  os.Getenv("PORT"),
		USER:                  os.Getenv("USER"),
		PASSWORD:              os.Getenv("PASSWORD"),
		DATABASE:              os.Getenv("DATABASE"),
		DB_NAME:               os.Getenv("DB_NAME"),
		DB:                    os.Getenv("DB"),
		AWS_REGION:            os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:       os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:       os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:   os.Getenv("AZURE_CLIENT_SECRET"),
		PSQLC_GOOGLE_INSTANCE: os.Getenv("PSQLC_GOOGLE_INSTANCE"),
	}
}

// Database returns the first of DATABASE, DB_NAME, DB that is set.
func (e *EnvVars) Database() string {
	return firstNonEmpty(e.DATABASE, e.DB_NAME, e.DB)
}

// Merge builds the ResolvedConnection for one command invocation.
//
// Host, port and user: explicit flag > env > record > psqlc.yaml server
// section > flag default > built-in default.
// Password: $PASSWORD > --passwd > record.
// Database: explicit flag > $DATABASE/$DB_NAME/$DB > record; empty otherwise.
//
// A malformed $PORT is rejected with psqlc.ErrInvalidConfig.
func Merge(record *psqlc.CredentialRecord, env *EnvVars, cli *CLIArgs, server *config.ServerConfig) (psqlc.ResolvedConnection, error) {
	if record == nil {
		record = &psqlc.CredentialRecord{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	if cli == nil {
		cli = &CLIArgs{}
	}
	if server == nil {
		server = &config.ServerConfig{}
	}

	conn := psqlc.ResolvedConnection{AuthMethod: psqlc.AuthMethodPassword}

	conn.Host = firstNonEmpty(
		explicit(cli.Host, cli.HostSet),
		env.HOST,
		record.Host,
		server.Host,
		cli.Host,
		psqlc.DefaultHost,
	)

	envPort := 0
	if env.PORT != "" {
		port, err := strconv.Atoi(env.PORT)
		if err != nil || port <= 0 || port > 65535 {
			return psqlc.ResolvedConnection{}, fmt.Errorf("%w: invalid $PORT value '%s': must be an integer between 1 and 65535", psqlc.ErrInvalidConfig, env.PORT)
		}
		envPort = port
	}
	explicitPort := 0
	if cli.PortSet {
		explicitPort = cli.Port
	}
	conn.Port = firstPositive(explicitPort, envPort, record.Port, server.Port, cli.Port, psqlc.DefaultPort)

	conn.User = firstNonEmpty(
		explicit(cli.User, cli.UserSet),
		env.USER,
		record.Username,
		server.User,
		cli.User,
		psqlc.DefaultSuperuser,
	)

	conn.Password = firstNonEmpty(env.PASSWORD, cli.Password, record.Password)

	conn.Database = firstNonEmpty(
		explicit(cli.Database, cli.DatabaseSet),
		env.Database(),
		record.Database,
	)

	return conn, nil
}

func explicit(value string, set bool) string {
	if set {
		return value
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
