//go:build unit || e2e

package authtest

import (
	"testing"

	"coupon-service/internal/pkg/config"
	"coupon-service/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func GenerateToken(t *testing.T, cfg config.Config, userID uuid.UUID, role string) string {
	t.Helper()

	svc := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
	token, err := svc.GenerateToken(userID, role)
	require.NoError(t, err, "failed to generate test token")
	return token
}

func GenerateAdminToken(t *testing.T, cfg config.Config) string {
	return GenerateToken(t, cfg, uuid.New(), jwt.RoleAdmin)
}

func GenerateCustomerToken(t *testing.T, cfg config.Config, userID uuid.UUID) string {
	return GenerateToken(t, cfg, userID, jwt.RoleCustomer)
}
