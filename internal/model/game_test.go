package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type GameSuite struct {
	suite.Suite
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) player(tag string, mode EntryMode) *Player {
	return &Player{Tag: PlayerTag(tag), Name: tag, EntryMode: mode}
}

func (s *GameSuite) TestDisplayName() {
	ffa := NewGame("G1", GameFreeForAll, 0)
	custom := NewGame("G2", GameCustom, 0)

	s.Equal("Free for all", ffa.DisplayName())
	s.Equal("Custom game G2", custom.DisplayName())
}

// Join policy tests

func (s *GameSuite) TestFreeForAllAcceptsAnyone() {
	g := NewGame("G1", GameFreeForAll, 0)
	g.Add(s.player("p1", EntryOpen))

	s.True(g.IsOpen("p2", EntryOpen))
	s.True(g.IsOpen("p3", EntryRestricted))
}

func (s *GameSuite) TestEmptyCustomGameAcceptsRestricted() {
	g := NewGame("G1", GameCustom, 0)
	s.True(g.IsOpen("p1", EntryRestricted))
}

func (s *GameSuite) TestOccupiedCustomGameRefusesRestricted() {
	g := NewGame("G1", GameCustom, 0)
	g.Add(s.player("p1", EntryOpen))

	s.False(g.IsOpen("p2", EntryRestricted))
	s.True(g.IsOpen("p2", EntryOpen))
}

func (s *GameSuite) TestFullGameRefusesEveryone() {
	g := NewGame("G1", GameFreeForAll, 2)
	g.Add(s.player("p1", EntryOpen))
	g.Add(s.player("p2", EntryOpen))

	s.False(g.IsOpen("p3", EntryOpen))
}

func (s *GameSuite) TestExistingMemberCannotRejoin() {
	g := NewGame("G1", GameFreeForAll, 0)
	g.Add(s.player("p1", EntryOpen))

	s.False(g.IsOpen("p1", EntryOpen))
}

func (s *GameSuite) TestForceEndedGameRefusesEveryone() {
	g := NewGame("G1", GameFreeForAll, 0)
	g.ForceEnd("")

	s.False(g.IsOpen("p1", EntryOpen))
}

// Membership tests

func (s *GameSuite) TestMembersInJoinOrder() {
	g := NewGame("G1", GameCustom, 0)
	g.Add(s.player("p2", EntryOpen))
	g.Add(s.player("p1", EntryOpen))

	members := g.Members()
	s.Require().Len(members, 2)
	s.Equal(PlayerTag("p2"), members[0].Tag)
	s.Equal(PlayerTag("p1"), members[1].Tag)
}

func (s *GameSuite) TestAddExistingMemberIsNoOp() {
	g := NewGame("G1", GameCustom, 0)
	p := s.player("p1", EntryOpen)
	g.Add(p)
	g.Add(p)

	s.Equal(1, g.MemberCount())
}

// Completion signal tests

func (s *GameSuite) TestFinishFiresHandlerOnce() {
	g := NewGame("G1", GameCustom, 0)
	fired := 0
	g.OnFinished(func(*Game) { fired++ })

	g.Finish()
	g.Finish()

	s.Equal(1, fired)
}

func (s *GameSuite) TestFinishWithoutHandlerIsSafe() {
	g := NewGame("G1", GameCustom, 0)
	s.NotPanics(func() { g.Finish() })
}

func (s *GameSuite) TestForceEndCarriesReason() {
	g := NewGame("G1", GameCustom, 0)

	ended, _ := g.ForceEnded()
	s.False(ended)

	g.ForceEnd("there was a problem with the server.")
	ended, reason := g.ForceEnded()
	s.True(ended)
	s.Equal("there was a problem with the server.", reason)
}

func (s *GameSuite) TestRebootForceEndHasEmptyReason() {
	g := NewGame("G1", GameCustom, 0)
	g.ForceEnd("")

	ended, reason := g.ForceEnded()
	s.True(ended)
	s.Empty(reason)
}

func (s *GameSuite) TestCriticalMessageQueueDrains() {
	g := NewGame("G1", GameCustom, 0)
	g.QueueCriticalMessage("maintenance in 5 minutes")
	g.QueueCriticalMessage("maintenance in 1 minute")

	s.Equal([]string{"maintenance in 5 minutes", "maintenance in 1 minute"}, g.DrainCriticalMessages())
	s.Empty(g.DrainCriticalMessages())
}
