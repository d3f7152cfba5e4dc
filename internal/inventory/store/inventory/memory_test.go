package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	id "cadastre/pkg/domain"
)

type InventoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InventoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInventoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InventoryStoreSuite))
}

func (s *InventoryStoreSuite) TestAddAllowsDuplicates() {
	s.Require().NoError(s.store.Add(s.ctx, "elm"))
	s.Require().NoError(s.store.Add(s.ctx, "elm"))

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.Location{"elm", "elm"}, listed)
}

func (s *InventoryStoreSuite) TestRemoveSwapsLastIntoSlot() {
	for _, l := range []id.Location{"a", "b", "c", "d"} {
		s.Require().NoError(s.store.Add(s.ctx, l))
	}

	s.Require().NoError(s.store.Remove(s.ctx, "b"))

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.Location{"a", "d", "c"}, listed)
}

func (s *InventoryStoreSuite) TestRemoveDeletesExactlyOneOccurrence() {
	for _, l := range []id.Location{"elm", "oak", "elm"} {
		s.Require().NoError(s.store.Add(s.ctx, l))
	}

	s.Require().NoError(s.store.Remove(s.ctx, "elm"))

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(listed, 2)
	count := 0
	for _, l := range listed {
		if l == "elm" {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *InventoryStoreSuite) TestRemoveAbsentIsNoOp() {
	s.Require().NoError(s.store.Add(s.ctx, "elm"))
	s.Require().NoError(s.store.Remove(s.ctx, "oak"))

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.Location{"elm"}, listed)
}

func (s *InventoryStoreSuite) TestListReturnsSnapshot() {
	s.Require().NoError(s.store.Add(s.ctx, "elm"))

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	listed[0] = "tampered"

	again, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]id.Location{"elm"}, again)
}
