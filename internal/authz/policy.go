// Package authz decides what a group member may do. Admins come from a
// static list plus a runtime list, both matched case-insensitively so
// "Peter" and " peter " name the same person.
package authz

import "strings"

// Action names an operation subject to a policy check.
type Action string

const (
	CottageEdit   Action = "cottage.edit"
	CottageDelete Action = "cottage.delete"
	CommentEdit   Action = "comment.edit"
	CommentDelete Action = "comment.delete"
	VoteDelete    Action = "vote.delete"
	RatingsList   Action = "ratings.list"
	SummaryCreate Action = "summary.create"
)

// Policy answers admin and ownership questions.
type Policy struct {
	static  []string
	runtime func() []string
}

// NewPolicy builds a policy from the static admin list and a function
// returning the runtime list, consulted on every check.
func NewPolicy(static []string, runtime func() []string) *Policy {
	return &Policy{static: static, runtime: runtime}
}

// Normalize maps a member name to its canonical form for comparison.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsAdmin reports whether the named member is in either admin list.
func (p *Policy) IsAdmin(name string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	for _, a := range p.static {
		if Normalize(a) == n {
			return true
		}
	}
	if p.runtime != nil {
		for _, a := range p.runtime() {
			if Normalize(a) == n {
				return true
			}
		}
	}
	return false
}

// IsOwner reports whether actor and owner name the same member.
func IsOwner(actor, owner string) bool {
	n := Normalize(actor)
	return n != "" && n == Normalize(owner)
}

// Can reports whether actor may perform action on a resource owned by
// owner. Editing is owner-only; deleting and the admin surfaces also
// allow admins.
func (p *Policy) Can(actor string, action Action, owner string) bool {
	switch action {
	case CottageEdit, CommentEdit:
		return IsOwner(actor, owner)
	case CottageDelete, CommentDelete, VoteDelete:
		return IsOwner(actor, owner) || p.IsAdmin(actor)
	case RatingsList, SummaryCreate:
		return p.IsAdmin(actor)
	default:
		return false
	}
}
