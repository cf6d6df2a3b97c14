package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrPlayerAlreadyMember = errors.New("player already in group")
	ErrInviteNotFound      = errors.New("group invite not found")
	ErrGroupHasSessions    = errors.New("group still has recorded sessions")
)

type Group struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string

	Players []Player `gorm:"many2many:player_groups;"`
	Admins  []Player `gorm:"many2many:group_admins;"`

	FarbeSettings datatypes.JSONType[map[string]float64]

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type GroupInvite struct {
	ID          uint      `gorm:"primaryKey"`
	GroupID     uint      `gorm:"not null;index"`
	Group       Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	TokenDigest string    `gorm:"unique;not null"`
	CreatedByID uint      `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

type GroupDAO struct {
	db *gorm.DB
}

func NewGroupDAO(db *gorm.DB) *GroupDAO {
	return &GroupDAO{
		db: db,
	}
}

// Insert creates the group with creatorID as its first member and admin.
func (d *GroupDAO) Insert(ctx context.Context, group Group, creatorID uint) (Group, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Players", "Admins").Create(&group).Error; err != nil {
			return err
		}

		creator, err := findPlayersTx(tx, []uint{creatorID})
		if err != nil {
			return err
		}
		if err := tx.Model(&group).Association("Players").Append(creator); err != nil {
			return err
		}

		return tx.Model(&group).Association("Admins").Append(creator)
	})
	if err != nil {
		return Group{}, err
	}

	return d.FindByID(ctx, group.ID)
}

func (d *GroupDAO) FindByID(ctx context.Context, id uint) (Group, error) {
	var group Group

	result := d.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("nickname") }).
		Preload("Admins").
		First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Group{}, ErrGroupNotFound
		}

		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindAll(ctx context.Context) ([]Group, error) {
	var groups []Group

	result := d.db.WithContext(ctx).Order("name").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Update writes name, description and farbe settings.
func (d *GroupDAO) Update(ctx context.Context, group Group) (Group, error) {
	result := d.db.WithContext(ctx).
		Model(&Group{ID: group.ID}).
		Select("Name", "Description", "FarbeSettings").
		Updates(&group)
	if result.Error != nil {
		return Group{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Group{}, ErrGroupNotFound
	}

	return d.FindByID(ctx, group.ID)
}

func (d *GroupDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group := Group{ID: id}
		if err := tx.Model(&group).Association("Players").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&group).Association("Admins").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&group)
		if result.Error != nil {
			if isForeignKeyViolation(result.Error) {
				return ErrGroupHasSessions
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}

		return nil
	})
}

func (d *GroupDAO) AddPlayer(ctx context.Context, groupID, playerID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("player_groups").
			Where("group_id = ? AND player_id = ?", groupID, playerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPlayerAlreadyMember
		}

		// Append upserts the associated row, so only existing players are
		// handed to it.
		player, err := findPlayersTx(tx, []uint{playerID})
		if err != nil {
			return err
		}

		if err := tx.Model(&Group{ID: groupID}).Association("Players").Append(player); err != nil {
			if isForeignKeyViolation(err) {
				return ErrGroupNotFound
			}
			return err
		}

		return nil
	})
}

// ReplaceAdmins sets the admin list to exactly playerIDs.
func (d *GroupDAO) ReplaceAdmins(ctx context.Context, groupID uint, playerIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admins, err := findPlayersTx(tx, playerIDs)
		if err != nil {
			return err
		}

		err = tx.Model(&Group{ID: groupID}).Association("Admins").Replace(admins)
		if err != nil && isForeignKeyViolation(err) {
			return ErrGroupNotFound
		}

		return err
	})
}

func (d *GroupDAO) FindPlayers(ctx context.Context, groupID uint) ([]Player, error) {
	var players []Player
	err := d.db.WithContext(ctx).Model(&Group{ID: groupID}).Order("nickname").Association("Players").Find(&players)
	if err != nil {
		return nil, err
	}

	return players, nil
}

func (d *GroupDAO) CountPlayers(ctx context.Context, groupID uint) (int64, error) {
	assoc := d.db.WithContext(ctx).Model(&Group{ID: groupID}).Association("Players")
	count := assoc.Count()

	return count, assoc.Error
}

func (d *GroupDAO) InsertInvite(ctx context.Context, invite GroupInvite) (GroupInvite, error) {
	result := d.db.WithContext(ctx).Omit("Group").Create(&invite)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return GroupInvite{}, ErrGroupNotFound
		}
		return GroupInvite{}, result.Error
	}

	return invite, nil
}

func (d *GroupDAO) FindInviteByDigest(ctx context.Context, digest string) (GroupInvite, error) {
	var invite GroupInvite

	result := d.db.WithContext(ctx).First(&invite, "token_digest = ?", digest)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GroupInvite{}, ErrInviteNotFound
		}

		return GroupInvite{}, result.Error
	}

	return invite, nil
}
