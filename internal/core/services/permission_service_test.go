package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	"github.com/openmc/treasury/internal/core/services"
	"github.com/openmc/treasury/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

// PermissionServiceTestSuite drives the resolver against the real in-memory
// node store; the fallback chain is the behavior under test and mocking the
// store away would leave nothing to verify.
type PermissionServiceTestSuite struct {
	suite.Suite
	service *services.PermissionService
	player  domain.Subject
}

func (suite *PermissionServiceTestSuite) SetupTest() {
	suite.service = services.NewPermissionService(memory.NewPermissionRepository())
	suite.player = domain.PlayerSubject(uuid.New(), "Steve")
}

func (suite *PermissionServiceTestSuite) TestHas_UndefinedByDefault() {
	v, err := suite.service.Has(context.Background(), domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.Undefined, v)
}

func (suite *PermissionServiceTestSuite) TestHas_ExactContext() {
	ctx := context.Background()
	nether := domain.WorldContextExact("nether")

	ok, err := suite.service.SetPermission(ctx, nether, suite.player, "town.build", domain.True)
	suite.Require().NoError(err)
	suite.True(ok)

	v, err := suite.service.Has(ctx, nether, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.True, v)

	// A different world sees nothing.
	v, err = suite.service.Has(ctx, domain.WorldContextExact("overworld"), suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.Undefined, v)
}

func (suite *PermissionServiceTestSuite) TestHas_GlobalFallback() {
	ctx := context.Background()

	_, err := suite.service.SetPermission(ctx, domain.Global, suite.player, "town.build", domain.True)
	suite.Require().NoError(err)

	// GLOBAL_FALLBACK reaches the global node from any world.
	v, err := suite.service.Has(ctx, domain.WorldContext("nether"), suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.True, v)

	// EXACT does not.
	v, err = suite.service.Has(ctx, domain.WorldContextExact("nether"), suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.Undefined, v)
}

func (suite *PermissionServiceTestSuite) TestHas_ExactShadowsGlobal() {
	ctx := context.Background()
	nether := domain.WorldContext("nether")

	_, err := suite.service.SetPermission(ctx, domain.Global, suite.player, "town.build", domain.True)
	suite.Require().NoError(err)
	_, err = suite.service.SetPermission(ctx, nether, suite.player, "town.build", domain.False)
	suite.Require().NoError(err)

	// An exact-context False wins over the global True.
	v, err := suite.service.Has(ctx, nether, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.False, v)
	suite.False(v.AsBool())
}

func (suite *PermissionServiceTestSuite) TestHas_TransientShadowsPersistent() {
	ctx := context.Background()

	_, err := suite.service.SetPermission(ctx, domain.Global, suite.player, "town.build", domain.True)
	suite.Require().NoError(err)
	_, err = suite.service.SetTransientPermission(ctx, domain.Global, suite.player, "town.build", domain.False)
	suite.Require().NoError(err)

	v, err := suite.service.Has(ctx, domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.False, v)

	// Clearing the transient node (Undefined removes it) re-exposes the
	// persistent layer.
	_, err = suite.service.SetTransientPermission(ctx, domain.Global, suite.player, "town.build", domain.Undefined)
	suite.Require().NoError(err)

	v, err = suite.service.Has(ctx, domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.True, v)
}

func (suite *PermissionServiceTestSuite) TestHas_GroupChain() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "admins"))
	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))

	_, err := suite.service.GroupSetPermission(ctx, domain.Global, "builders", "town.build", domain.True)
	suite.Require().NoError(err)

	added, err := suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)
	suite.True(added)

	v, err := suite.service.Has(ctx, domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.True, v)
}

func (suite *PermissionServiceTestSuite) TestHas_DirectNodeShadowsGroup() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))
	_, err := suite.service.GroupSetPermission(ctx, domain.Global, "builders", "town.build", domain.True)
	suite.Require().NoError(err)
	_, err = suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)

	// The player's own False outranks the group's True.
	_, err = suite.service.SetPermission(ctx, domain.Global, suite.player, "town.build", domain.False)
	suite.Require().NoError(err)

	v, err := suite.service.Has(ctx, domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.False, v)
}

func (suite *PermissionServiceTestSuite) TestHas_GroupPriorityByRegistrationOrder() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "admins"))
	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))

	_, err := suite.service.GroupSetPermission(ctx, domain.Global, "admins", "town.build", domain.False)
	suite.Require().NoError(err)
	_, err = suite.service.GroupSetPermission(ctx, domain.Global, "builders", "town.build", domain.True)
	suite.Require().NoError(err)

	_, err = suite.service.AddGroup(ctx, domain.Global, suite.player, "admins")
	suite.Require().NoError(err)
	_, err = suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)

	// admins was registered first, so its False wins the chain.
	v, err := suite.service.Has(ctx, domain.Global, suite.player, "town.build")
	suite.Require().NoError(err)
	suite.Equal(domain.False, v)
}

func (suite *PermissionServiceTestSuite) TestGroups_RegisterDuplicate() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "admins"))
	err := suite.service.RegisterGroup(ctx, "admins")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PermissionServiceTestSuite) TestGroups_AddToUnregisteredGroup() {
	added, err := suite.service.AddGroup(context.Background(), domain.Global, suite.player, "ghosts")
	suite.Require().NoError(err)
	suite.False(added)
}

func (suite *PermissionServiceTestSuite) TestGroupsOfAndPrimaryGroup() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "admins"))
	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))

	_, err := suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)
	_, err = suite.service.AddGroup(ctx, domain.Global, suite.player, "admins")
	suite.Require().NoError(err)

	groups, err := suite.service.GroupsOf(ctx, domain.Global, suite.player)
	suite.Require().NoError(err)
	suite.Equal([]string{"admins", "builders"}, groups)

	primary, err := suite.service.PrimaryGroup(ctx, domain.Global, suite.player)
	suite.Require().NoError(err)
	suite.Equal("admins", primary)
}

func (suite *PermissionServiceTestSuite) TestGroupsOf_MergesGlobalMemberships() {
	ctx := context.Background()
	nether := domain.WorldContextExact("nether")

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "admins"))
	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))

	// Membership split across contexts: builders globally, admins only in
	// the nether.
	_, err := suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)
	_, err = suite.service.AddGroup(ctx, nether, suite.player, "admins")
	suite.Require().NoError(err)

	// GLOBAL_FALLBACK merges both lists in registration order.
	groups, err := suite.service.GroupsOf(ctx, domain.WorldContext("nether"), suite.player)
	suite.Require().NoError(err)
	suite.Equal([]string{"admins", "builders"}, groups)

	primary, err := suite.service.PrimaryGroup(ctx, domain.WorldContext("nether"), suite.player)
	suite.Require().NoError(err)
	suite.Equal("admins", primary)

	// EXACT stays inside the nether.
	groups, err = suite.service.GroupsOf(ctx, nether, suite.player)
	suite.Require().NoError(err)
	suite.Equal([]string{"admins"}, groups)
}

func (suite *PermissionServiceTestSuite) TestInGroup_GlobalFallback() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))
	_, err := suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)

	member, err := suite.service.InGroup(ctx, domain.WorldContext("nether"), suite.player, "builders")
	suite.Require().NoError(err)
	suite.True(member)

	member, err = suite.service.InGroup(ctx, domain.WorldContextExact("nether"), suite.player, "builders")
	suite.Require().NoError(err)
	suite.False(member)
}

func (suite *PermissionServiceTestSuite) TestRemoveGroup() {
	ctx := context.Background()

	suite.Require().NoError(suite.service.RegisterGroup(ctx, "builders"))
	_, err := suite.service.AddGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)

	removed, err := suite.service.RemoveGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)
	suite.True(removed)

	removed, err = suite.service.RemoveGroup(ctx, domain.Global, suite.player, "builders")
	suite.Require().NoError(err)
	suite.False(removed)
}

func (suite *PermissionServiceTestSuite) TestHasAsync() {
	ctx := context.Background()

	_, err := suite.service.SetPermission(ctx, domain.Global, suite.player, "town.build", domain.True)
	suite.Require().NoError(err)

	v := <-suite.service.HasAsync(ctx, domain.Global, suite.player, "town.build")
	suite.Equal(domain.True, v)
}

func TestPermissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionServiceTestSuite))
}
