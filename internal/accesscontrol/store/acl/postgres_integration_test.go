//go:build integration

package acl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cadastre/internal/accesscontrol/models"
	"cadastre/internal/accesscontrol/store/acl"
	"cadastre/pkg/testutil/containers"
)

type PostgresACLSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *acl.Postgres
}

func TestPostgresACLSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresACLSuite))
}

func (s *PostgresACLSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = acl.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresACLSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "access_control_list"))
}

func (s *PostgresACLSuite) TestGrantIsIdempotent() {
	ctx := context.Background()
	entry := models.Entry{Principal: "alice", GrantedBy: "registry-admin", GrantedAt: time.Now()}

	changed, err := s.store.Grant(ctx, entry)
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.Grant(ctx, entry)
	s.Require().NoError(err)
	s.False(changed)

	authorized, err := s.store.IsAuthorized(ctx, "alice")
	s.Require().NoError(err)
	s.True(authorized)
}

func (s *PostgresACLSuite) TestRevokeSemantics() {
	ctx := context.Background()
	_, err := s.store.Grant(ctx, models.Entry{Principal: "alice", GrantedBy: "registry-admin", GrantedAt: time.Now()})
	s.Require().NoError(err)

	changed, err := s.store.Revoke(ctx, "alice")
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.store.Revoke(ctx, "alice")
	s.Require().NoError(err)
	s.False(changed)

	authorized, err := s.store.IsAuthorized(ctx, "alice")
	s.Require().NoError(err)
	s.False(authorized)
}

func (s *PostgresACLSuite) TestUnknownPrincipalReadsFalse() {
	authorized, err := s.store.IsAuthorized(context.Background(), "nobody")
	s.Require().NoError(err)
	s.False(authorized)
}
