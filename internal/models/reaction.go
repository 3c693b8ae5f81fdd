package models

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
)

// ReactionKind is stored as a nullable column: ReactionNone maps to NULL.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
	ReactionNone    ReactionKind = "none"
)

// Valid reports whether k can be requested by a user.
func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

func (k ReactionKind) Value() (driver.Value, error) {
	switch k {
	case ReactionLike, ReactionDislike:
		return string(k), nil
	case ReactionNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid reaction kind %q", string(k))
	}
}

func (k *ReactionKind) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*k = ReactionNone
	case string:
		*k = ReactionKind(v)
	case []byte:
		*k = ReactionKind(v)
	default:
		return fmt.Errorf("cannot scan %T into ReactionKind", src)
	}
	if *k == "" {
		*k = ReactionNone
	}
	return nil
}

// Reaction is a user's opinion on a post. A (user, post) pair has at most one row;
// clearing a reaction keeps the row with a NULL kind.
type Reaction struct {
	ID     int          `gorm:"primaryKey" json:"id"`
	UserID int          `gorm:"not null;uniqueIndex:idx_reactions_user_post,priority:1" json:"user_id"`
	PostID int          `gorm:"not null;uniqueIndex:idx_reactions_user_post,priority:2;index" json:"post_id"`
	Kind   ReactionKind `gorm:"column:reaction;type:varchar(16)" json:"reaction"`
	User   *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post   *Post        `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// AfterFind restores ReactionNone for cleared rows: gorm loads a NULL column as
// the zero value without calling Scan.
func (r *Reaction) AfterFind(tx *gorm.DB) error {
	if r.Kind == "" {
		r.Kind = ReactionNone
	}
	return nil
}
