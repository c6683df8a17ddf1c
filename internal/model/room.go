package model

// RoomID identifies a live chat room. IDs are unique only among live
// rooms; a freed id may be reused.
type RoomID string

// RoomType classifies a room for listing and password checks.
type RoomType string

const (
	RoomOpen     RoomType = "open"
	RoomPassword RoomType = "password"
	RoomClosed   RoomType = "closed" // administrative/private, never listed publicly
)

// ChatRoom is one room's membership set and policy. A room exists in
// the chat manager's registry iff its member set is non-empty (seeded
// default rooms excepted until their first member arrives).
type ChatRoom struct {
	ID           RoomID
	FriendlyName string
	Password     string // empty means no password

	administrative bool
	members        map[PlayerTag]struct{}
	order          []PlayerTag
}

// NewChatRoom constructs a room. A room with no friendly name (a paired
// private room), or a passworded room seeded without an owner, is
// administrative and excluded from public listings.
func NewChatRoom(id RoomID, friendlyName, password string, hasOwner bool) *ChatRoom {
	return &ChatRoom{
		ID:             id,
		FriendlyName:   friendlyName,
		Password:       password,
		administrative: friendlyName == "" || (password != "" && !hasOwner),
		members:        make(map[PlayerTag]struct{}),
	}
}

// Type derives the room classification.
func (r *ChatRoom) Type() RoomType {
	switch {
	case r.administrative:
		return RoomClosed
	case r.Password != "":
		return RoomPassword
	default:
		return RoomOpen
	}
}

// Add inserts a member. Adding an existing member is a no-op.
func (r *ChatRoom) Add(tag PlayerTag) {
	if _, ok := r.members[tag]; ok {
		return
	}
	r.members[tag] = struct{}{}
	r.order = append(r.order, tag)
}

// Remove deletes a member and reports whether the member set is now
// empty, in which case the room must be retired.
func (r *ChatRoom) Remove(tag PlayerTag) bool {
	if _, ok := r.members[tag]; ok {
		delete(r.members, tag)
		for i, t := range r.order {
			if t == tag {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return len(r.members) == 0
}

// Has reports membership.
func (r *ChatRoom) Has(tag PlayerTag) bool {
	_, ok := r.members[tag]
	return ok
}

// Members returns the member tags in join order.
func (r *ChatRoom) Members() []PlayerTag {
	out := make([]PlayerTag, len(r.order))
	copy(out, r.order)
	return out
}

// MemberCount returns the number of members.
func (r *ChatRoom) MemberCount() int {
	return len(r.members)
}
