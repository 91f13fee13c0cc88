package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/psqlc/internal/db"
	"github.com/vvka-141/psqlc/pkg/psqlc"
)

type flatFormat int

const (
	formatUnknown flatFormat = iota
	formatDotenv
	formatYAML
	formatJSON
	formatTOML
)

func (f flatFormat) String() string {
	switch f {
	case formatDotenv:
		return "dotenv"
	case formatYAML:
		return "yaml"
	case formatJSON:
		return "json"
	case formatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// flatFormatFor picks the loader from the file name alone.
func flatFormatFor(path string) flatFormat {
	base := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(base, ".env") || strings.HasPrefix(base, ".env.") {
		return formatDotenv
	}
	switch filepath.Ext(base) {
	case ".yaml", ".yml":
		return formatYAML
	case ".json":
		return formatJSON
	case ".toml":
		return formatTOML
	}
	return formatUnknown
}

// parseFlat decodes data into a flat mapping of top-level scalar values.
// Nested maps and lists are dropped.
func parseFlat(path string, data []byte) (map[string]string, error) {
	format := flatFormatFor(path)
	if format == formatDotenv {
		values, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", psqlc.ErrInvalidConfig, path, err)
		}
		return values, nil
	}

	var raw map[string]any
	var err error
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, &raw)
	case formatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case formatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported config format", psqlc.ErrInvalidConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", psqlc.ErrInvalidConfig, path, format, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := scalarString(v); ok {
			values[k] = s
		}
	}
	return values, nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case time.Time:
		return t.Format(time.RFC3339), true
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// extractFlat turns a flat mapping into a record. The URL strategy runs
// first; a missing or rejected URL falls through to the alias matrix.
func extractFlat(values map[string]string, source string, logger psqlc.Logger) *psqlc.CredentialRecord {
	if raw, ok := firstPresent(values, urlKeys); ok {
		u, err := db.ParseConnectionURL(raw)
		switch {
		case err != nil:
			logger.Verbose("%s: ignoring connection URL: %v", source, err)
		case !u.IsPostgres():
			logger.Verbose("%s: connection URL scheme %q is not PostgreSQL", source, u.Scheme)
		case !u.Complete():
			logger.Verbose("%s: connection URL lacks host, user or database", source)
		default:
			return u.Record(source)
		}
	}

	if !flatIsPostgres(values) {
		logger.Verbose("%s: no PostgreSQL marker found", source)
		return nil
	}

	rec := &psqlc.CredentialRecord{Source: source}
	rec.Username, _ = firstPresent(values, flatUserKeys)
	rec.Password, _ = firstPresent(values, flatPasswordKeys)
	rec.Database, _ = firstPresent(values, flatDatabaseKeys)
	rec.Host, _ = firstPresent(values, flatHostKeys)
	if raw, ok := firstPresent(values, flatPortKeys); ok {
		rec.Port = parsePort(raw, source, logger)
	}
	return rec
}

func flatIsPostgres(values map[string]string) bool {
	for _, key := range markerKeys {
		if isPostgresMarker(values[key]) {
			return true
		}
	}
	for _, key := range brandedPortKeys {
		if values[key] != "" {
			return true
		}
	}
	return false
}

func parsePort(raw, source string, logger psqlc.Logger) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		logger.Warn("%s: ignoring invalid port %q", source, raw)
		return 0
	}
	return port
}
