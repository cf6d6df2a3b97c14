package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionCodeExists     = errors.New("session code already in use")
	ErrSessionStatusConflict = errors.New("session status changed concurrently")
	ErrTeamPositionTaken     = errors.New("team position already taken")
)

type Session struct {
	ID uint `gorm:"primaryKey"`

	GroupID uint  `gorm:"not null;index"`
	Group   Group `gorm:"foreignKey:GroupID;constraint:OnDelete:RESTRICT"`

	Code   string `gorm:"unique;not null;size:16"`
	Mode   string `gorm:"not null"`
	Status string `gorm:"not null;index"`

	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time

	Latitude  *float64
	Longitude *float64

	Players []Player `gorm:"many2many:session_players;"`
	Teams   []Team   `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Matches []Match  `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Session) TableName() string {
	return "jass_sessions"
}

type Team struct {
	ID uint `gorm:"primaryKey"`

	SessionID uint   `gorm:"not null;uniqueIndex:idx_teams_session_position"`
	Position  int    `gorm:"not null;uniqueIndex:idx_teams_session_position"`
	Name      string `gorm:"not null"`

	Players []Player `gorm:"many2many:team_players;"`
}

type JassDAO struct {
	db *gorm.DB
}

func NewJassDAO(db *gorm.DB) *JassDAO {
	return &JassDAO{
		db: db,
	}
}

// Insert creates the session and seats playerIDs in it.
func (d *JassDAO) Insert(ctx context.Context, session Session, playerIDs []uint) (Session, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groups int64
		if err := tx.Model(&Group{}).Where("id = ?", session.GroupID).Count(&groups).Error; err != nil {
			return err
		}
		if groups == 0 {
			return ErrGroupNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&session).Error; err != nil {
			if isUniqueViolation(err, "uni_jass_sessions_code") {
				return ErrSessionCodeExists
			}
			return err
		}

		if len(playerIDs) == 0 {
			return nil
		}

		players, err := findPlayersTx(tx, playerIDs)
		if err != nil {
			return err
		}

		return tx.Model(&session).Association("Players").Append(players)
	})
	if err != nil {
		return Session{}, err
	}

	return d.FindByID(ctx, session.ID)
}

func (d *JassDAO) FindByID(ctx context.Context, id uint) (Session, error) {
	return d.findOne(ctx, "id = ?", id)
}

func (d *JassDAO) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&Session{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *JassDAO) FindByGroupID(ctx context.Context, groupID uint) ([]Session, error) {
	var sessions []Session

	result := withSessionTree(d.db.WithContext(ctx)).
		Where("group_id = ?", groupID).
		Order("started_at DESC").
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}

// CountByGroup returns the number of sessions of a group and how many of
// them are in one of the given statuses.
func (d *JassDAO) CountByGroup(ctx context.Context, groupID uint, statuses ...string) (total, matching int64, err error) {
	db := d.db.WithContext(ctx)

	if err = db.Model(&Session{}).Where("group_id = ?", groupID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if len(statuses) == 0 {
		return total, 0, nil
	}
	if err = db.Model(&Session{}).
		Where("group_id = ? AND status IN ?", groupID, statuses).
		Count(&matching).Error; err != nil {
		return 0, 0, err
	}

	return total, matching, nil
}

// UpdateStatus moves the session from one status to another. It fails with
// ErrSessionStatusConflict if the stored status is no longer from.
func (d *JassDAO) UpdateStatus(ctx context.Context, id uint, from, to string, endedAt *time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"ended_at":   endedAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return d.missingOrConflict(ctx, id)
	}

	return nil
}

// InsertTeam seats playerIDs in a new team of the session.
func (d *JassDAO) InsertTeam(ctx context.Context, team Team, playerIDs []uint) (Team, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Players").Create(&team).Error; err != nil {
			switch {
			case isUniqueViolation(err, "idx_teams_session_position"):
				return ErrTeamPositionTaken
			case isForeignKeyViolation(err):
				return ErrSessionNotFound
			}
			return err
		}

		players, err := findPlayersTx(tx, playerIDs)
		if err != nil {
			return err
		}
		team.Players = nil

		return tx.Model(&team).Association("Players").Append(players)
	})
	if err != nil {
		return Team{}, err
	}

	if err := d.db.WithContext(ctx).Preload("Players").First(&team, team.ID).Error; err != nil {
		return Team{}, err
	}

	return team, nil
}

func (d *JassDAO) findOne(ctx context.Context, query string, args ...interface{}) (Session, error) {
	var session Session

	result := withSessionTree(d.db.WithContext(ctx)).Where(query, args...).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

func (d *JassDAO) missingOrConflict(ctx context.Context, id uint) error {
	var count int64
	if err := d.db.WithContext(ctx).Model(&Session{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSessionNotFound
	}

	return ErrSessionStatusConflict
}

// withSessionTree preloads everything hanging off a session, in play order.
func withSessionTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("nickname") }).
		Preload("Teams", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Teams.Players").
		Preload("Matches", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Matches.Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Matches.Rounds.Weis", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func findPlayersTx(tx *gorm.DB, ids []uint) ([]Player, error) {
	var players []Player
	if err := tx.Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	if len(players) != len(uniqueIDs(ids)) {
		return nil, ErrPlayerNotFound
	}

	return players, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}
