package dao

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNicknameExists = errors.New("nickname already taken")
	ErrSubjectExists  = errors.New("identity already bound to another player")
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerInUse    = errors.New("player is referenced by recorded games")
)

type Player struct {
	ID uint `gorm:"primaryKey"`

	Nickname string  `gorm:"unique;not null;size:25"`
	Subject  *string `gorm:"unique"`
	Email    *string `gorm:"index"`

	IsGuest        bool `gorm:"not null"`
	EmailConfirmed bool `gorm:"not null"`
	InvitedByID    *uint

	Groups []Group `gorm:"many2many:player_groups;"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PlayerDAO struct {
	db *gorm.DB
}

func NewPlayerDAO(db *gorm.DB) *PlayerDAO {
	return &PlayerDAO{
		db: db,
	}
}

func (d *PlayerDAO) Insert(ctx context.Context, player Player) (Player, error) {
	result := d.db.WithContext(ctx).Omit("Groups").Create(&player)
	if result.Error != nil {
		return Player{}, translatePlayerErr(result.Error)
	}

	return player, nil
}

// Update writes every column of player, zero values included.
func (d *PlayerDAO) Update(ctx context.Context, player Player) (Player, error) {
	result := d.db.WithContext(ctx).Omit("Groups", "CreatedAt").Save(&player)
	if result.Error != nil {
		return Player{}, translatePlayerErr(result.Error)
	}

	return player, nil
}

func (d *PlayerDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var player Player
		if err := tx.First(&player, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		if err := tx.Model(&player).Association("Groups").Clear(); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM group_admins WHERE player_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&player).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrPlayerInUse
			}
			return err
		}

		return nil
	})
}

func (d *PlayerDAO) FindByID(ctx context.Context, id uint) (Player, error) {
	return d.findOne(ctx, "id = ?", id)
}

func (d *PlayerDAO) FindBySubject(ctx context.Context, subject string) (Player, error) {
	return d.findOne(ctx, "subject = ?", subject)
}

func (d *PlayerDAO) FindByNickname(ctx context.Context, nickname string) (Player, error) {
	return d.findOne(ctx, "nickname = ?", nickname)
}

// FindByIdentifier resolves identifier as a numeric ID, an identity subject
// or a nickname, in that order.
func (d *PlayerDAO) FindByIdentifier(ctx context.Context, identifier string) (Player, error) {
	query := d.db.WithContext(ctx).Where("subject = ? OR nickname = ?", identifier, identifier)
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		query = d.db.WithContext(ctx).Where("id = ? OR subject = ? OR nickname = ?", id, identifier, identifier)
	}

	var player Player
	result := query.Order("id").First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Player{}, ErrPlayerNotFound
		}

		return Player{}, result.Error
	}

	return player, nil
}

func (d *PlayerDAO) FindAll(ctx context.Context) ([]Player, error) {
	var players []Player

	result := d.db.WithContext(ctx).Order("nickname").Find(&players)
	if result.Error != nil {
		return nil, result.Error
	}

	return players, nil
}

func (d *PlayerDAO) FindByIDs(ctx context.Context, ids []uint) ([]Player, error) {
	var players []Player

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&players)
	if result.Error != nil {
		return nil, result.Error
	}

	return players, nil
}

func (d *PlayerDAO) Search(ctx context.Context, term string, limit int) ([]Player, error) {
	var players []Player

	result := d.db.WithContext(ctx).
		Where("nickname ILIKE ?", "%"+escapeLike(term)+"%").
		Order("nickname").
		Limit(limit).
		Find(&players)
	if result.Error != nil {
		return nil, result.Error
	}

	return players, nil
}

func (d *PlayerDAO) FindGroups(ctx context.Context, playerID uint) ([]Group, error) {
	player := Player{ID: playerID}

	var groups []Group
	if err := d.db.WithContext(ctx).Model(&player).Order("name").Association("Groups").Find(&groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (d *PlayerDAO) findOne(ctx context.Context, query string, args ...interface{}) (Player, error) {
	var player Player

	result := d.db.WithContext(ctx).Where(query, args...).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Player{}, ErrPlayerNotFound
		}

		return Player{}, result.Error
	}

	return player, nil
}

func translatePlayerErr(err error) error {
	switch {
	case isUniqueViolation(err, "uni_players_nickname"):
		return ErrNicknameExists
	case isUniqueViolation(err, "uni_players_subject"):
		return ErrSubjectExists
	default:
		return err
	}
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}

	return string(out)
}
