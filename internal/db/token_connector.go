package db

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// tokenExpiryWarning is the remaining lifetime below which a warning is logged.
const tokenExpiryWarning = 5 * time.Minute

// TokenConnector authenticates with a short-lived cloud token (AWS IAM,
// Azure Entra ID) in place of the password.
type TokenConnector struct {
	next          psqlc.Connector
	tokenProvider TokenProvider
	providerName  string
	logger        psqlc.Logger
	now           func() time.Time
}

// NewTokenConnector creates a connector that fetches a token from
// tokenProvider and opens the session through next.
func NewTokenConnector(next psqlc.Connector, tokenProvider TokenProvider, providerName string, logger psqlc.Logger) *TokenConnector {
	return &TokenConnector{
		next:          next,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		now:           time.Now,
	}
}

func (c *TokenConnector) Connect(ctx context.Context, params psqlc.ResolvedConnection) (psqlc.Session, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire %s token: %w", psqlc.ErrConnectionFailed, c.providerName, err)
	}

	if remaining := expiresOn.Sub(c.now()); remaining < tokenExpiryWarning {
		c.logger.Warn("%s token expires in %v", c.providerName, remaining.Round(time.Second))
	}
	c.logger.Verbose("Acquired token from %s", c.tokenProvider)

	withToken := params
	withToken.Password = token
	withToken.AuthMethod = psqlc.AuthMethodPassword
	return c.next.Connect(ctx, withToken)
}
