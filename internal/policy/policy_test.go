package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"review-backend/internal/apperr"
)

var (
	anon      = Anonymous()
	author    = Actor{UserID: 1, Username: "author", Role: RoleUser}
	stranger  = Actor{UserID: 2, Username: "stranger", Role: RoleUser}
	moderator = Actor{UserID: 3, Username: "mod", Role: RoleModerator}
	admin     = Actor{UserID: 4, Username: "admin", Role: RoleAdmin}
	superuser = Actor{UserID: 5, Username: "root", Role: RoleUser, IsSuperuser: true}
)

func TestActorCapabilities(t *testing.T) {
	assert.False(t, anon.Authenticated())
	assert.False(t, anon.IsAdmin())
	assert.False(t, anon.IsModerator())

	assert.True(t, admin.IsAdmin())
	assert.True(t, superuser.IsAdmin())
	assert.False(t, moderator.IsAdmin())
	assert.True(t, moderator.IsModerator())
	assert.False(t, author.IsModerator())

	assert.True(t, author.Owns(1))
	assert.False(t, author.Owns(2))
	assert.False(t, anon.Owns(0))

	// superuser flag without authentication grants nothing
	assert.False(t, Actor{IsSuperuser: true, Role: RoleAdmin}.IsAdmin())
}

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("superadmin").Valid())
	assert.False(t, Role("").Valid())
}

func TestCan_Catalog(t *testing.T) {
	for _, res := range []Resource{ResourceTitle, ResourceCategory, ResourceGenre} {
		for _, actor := range []Actor{anon, author, moderator, admin, superuser} {
			assert.Equal(t, Allow, Can(actor, ActionRead, On(res)), "%s read %s", actor.Username, res)
		}
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			assert.Equal(t, DenyUnauthenticated, Can(anon, action, On(res)))
			assert.Equal(t, DenyForbidden, Can(author, action, On(res)))
			assert.Equal(t, DenyForbidden, Can(moderator, action, On(res)))
			assert.Equal(t, Allow, Can(admin, action, On(res)))
			assert.Equal(t, Allow, Can(superuser, action, On(res)))
		}
	}
}

func TestCan_AuthoredContent(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		action Action
		target Target
		want   Decision
	}{
		{"anon reads review", anon, ActionRead, OwnedBy(ResourceReview, 1), Allow},
		{"anon lists comments", anon, ActionRead, On(ResourceComment), Allow},
		{"anon creates review", anon, ActionCreate, On(ResourceReview), DenyUnauthenticated},
		{"anon deletes review", anon, ActionDelete, OwnedBy(ResourceReview, 1), DenyUnauthenticated},
		{"anon deletes review collection level", anon, ActionDelete, On(ResourceReview), DenyUnauthenticated},
		{"user creates review", author, ActionCreate, On(ResourceReview), Allow},
		{"user creates comment", stranger, ActionCreate, On(ResourceComment), Allow},
		{"author updates own review", author, ActionUpdate, OwnedBy(ResourceReview, 1), Allow},
		{"author deletes own comment", author, ActionDelete, OwnedBy(ResourceComment, 1), Allow},
		{"stranger updates review", stranger, ActionUpdate, OwnedBy(ResourceReview, 1), DenyForbidden},
		{"stranger deletes comment", stranger, ActionDelete, OwnedBy(ResourceComment, 1), DenyForbidden},
		{"stranger passes collection level", stranger, ActionUpdate, On(ResourceReview), Allow},
		{"moderator updates any review", moderator, ActionUpdate, OwnedBy(ResourceReview, 1), Allow},
		{"moderator deletes any comment", moderator, ActionDelete, OwnedBy(ResourceComment, 1), Allow},
		{"moderator creates review", moderator, ActionCreate, On(ResourceReview), Allow},
		{"admin deletes any review", admin, ActionDelete, OwnedBy(ResourceReview, 1), Allow},
		{"superuser updates any comment", superuser, ActionUpdate, OwnedBy(ResourceComment, 2), Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Can(tt.actor, tt.action, tt.target))
		})
	}
}

func TestCan_ObjectWithoutOwnerIsNotOwned(t *testing.T) {
	orphan := OwnedBy(ResourceReview, 0)

	assert.Equal(t, DenyForbidden, Can(author, ActionUpdate, orphan))
	assert.Equal(t, DenyForbidden, Can(stranger, ActionDelete, OwnedBy(ResourceComment, 0)))
	assert.Equal(t, DenyUnauthenticated, Can(anon, ActionDelete, orphan))
	assert.Equal(t, Allow, Can(moderator, ActionDelete, orphan))
	assert.Equal(t, Allow, Can(admin, ActionUpdate, orphan))
}

func TestCan_ModeratorDeletesReviewButCannotCreateCategory(t *testing.T) {
	assert.True(t, Can(moderator, ActionDelete, OwnedBy(ResourceReview, author.UserID)).Allowed())
	assert.Equal(t, DenyForbidden, Can(moderator, ActionCreate, On(ResourceCategory)))
}

func TestCan_UserManagement(t *testing.T) {
	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		assert.Equal(t, DenyUnauthenticated, Can(anon, action, On(ResourceUser)))
		assert.Equal(t, DenyForbidden, Can(author, action, On(ResourceUser)))
		assert.Equal(t, DenyForbidden, Can(moderator, action, On(ResourceUser)))
		assert.Equal(t, Allow, Can(admin, action, On(ResourceUser)))
		assert.Equal(t, Allow, Can(superuser, action, On(ResourceUser)))
	}
}

func TestCan_Profile(t *testing.T) {
	for _, actor := range []Actor{author, moderator, admin} {
		assert.Equal(t, Allow, Can(actor, ActionRead, On(ResourceProfile)))
		assert.Equal(t, Allow, Can(actor, ActionUpdate, On(ResourceProfile)))
		assert.Equal(t, DenyForbidden, Can(actor, ActionDelete, On(ResourceProfile)))
	}
	assert.Equal(t, DenyUnauthenticated, Can(anon, ActionRead, On(ResourceProfile)))
	assert.Equal(t, DenyUnauthenticated, Can(anon, ActionUpdate, On(ResourceProfile)))
}

func TestCan_UnknownResource(t *testing.T) {
	assert.Equal(t, DenyUnauthenticated, Can(anon, ActionRead, On("bogus")))
	assert.Equal(t, DenyForbidden, Can(admin, ActionRead, On("bogus")))
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, Allow.Err())
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(DenyUnauthenticated.Err()))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(DenyForbidden.Err()))

	err := Check(stranger, ActionUpdate, OwnedBy(ResourceReview, author.UserID))
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}
