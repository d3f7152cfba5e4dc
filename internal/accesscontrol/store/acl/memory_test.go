package acl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cadastre/internal/accesscontrol/models"
	id "cadastre/pkg/domain"
)

type ACLStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ACLStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestACLStoreSuite(t *testing.T) {
	suite.Run(t, new(ACLStoreSuite))
}

func (s *ACLStoreSuite) entry(p string) models.Entry {
	return models.Entry{
		Principal: id.Principal(p),
		GrantedBy: "registry-admin",
		GrantedAt: time.Now(),
	}
}

func (s *ACLStoreSuite) TestGrantAndLookup() {
	s.Run("missing principal reads as unauthorized", func() {
		ok, err := s.store.IsAuthorized(s.ctx, "nobody")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("granted principal reads as authorized", func() {
		changed, err := s.store.Grant(s.ctx, s.entry("alice"))
		s.Require().NoError(err)
		s.True(changed)

		ok, err := s.store.IsAuthorized(s.ctx, "alice")
		s.Require().NoError(err)
		s.True(ok)
	})
}

func (s *ACLStoreSuite) TestIdempotency() {
	s.Run("double grant is a no-op", func() {
		changed, err := s.store.Grant(s.ctx, s.entry("alice"))
		s.Require().NoError(err)
		s.True(changed)

		changed, err = s.store.Grant(s.ctx, s.entry("alice"))
		s.Require().NoError(err)
		s.False(changed)

		entries, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(entries, 1)
	})

	s.Run("revoking an unknown principal is a no-op", func() {
		changed, err := s.store.Revoke(s.ctx, "ghost")
		s.Require().NoError(err)
		s.False(changed)
	})

	s.Run("revoke then lookup reads false", func() {
		_, err := s.store.Grant(s.ctx, s.entry("bob"))
		s.Require().NoError(err)

		changed, err := s.store.Revoke(s.ctx, "bob")
		s.Require().NoError(err)
		s.True(changed)

		ok, err := s.store.IsAuthorized(s.ctx, "bob")
		s.Require().NoError(err)
		s.False(ok)
	})
}
