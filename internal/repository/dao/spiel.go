package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrRoundNotFound = errors.New("round not found")
	ErrMatchConflict = errors.New("match was modified concurrently")
)

type Match struct {
	ID uint `gorm:"primaryKey"`

	SessionID uint `gorm:"not null;uniqueIndex:idx_matches_session_number"`
	Number    int  `gorm:"not null;uniqueIndex:idx_matches_session_number"`

	Team1Score int     `gorm:"not null"`
	Team2Score int     `gorm:"not null"`
	TotalScore float64 `gorm:"not null"`
	Version    int     `gorm:"not null"`

	Rounds []Round `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Round struct {
	ID uint `gorm:"primaryKey"`

	MatchID uint `gorm:"not null;uniqueIndex:idx_rounds_match_number"`
	Number  int  `gorm:"not null;uniqueIndex:idx_rounds_match_number"`

	Farbe      string  `gorm:"not null"`
	Team1Score int     `gorm:"not null"`
	Team2Score int     `gorm:"not null"`
	Multiplier float64 `gorm:"not null"`

	StoeckTeam1Player1 bool `gorm:"not null"`
	StoeckTeam1Player2 bool `gorm:"not null"`
	StoeckTeam2Player1 bool `gorm:"not null"`
	StoeckTeam2Player2 bool `gorm:"not null"`

	Weis []Weis `gorm:"foreignKey:RoundID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
}

type Weis struct {
	ID uint `gorm:"primaryKey"`

	RoundID  uint   `gorm:"not null;index"`
	PlayerID uint   `gorm:"not null;index"`
	Player   Player `gorm:"foreignKey:PlayerID;constraint:OnDelete:RESTRICT"`

	Typ    string `gorm:"not null"`
	Anzahl int    `gorm:"not null"`
	Punkte int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Weis) TableName() string {
	return "weis"
}

// MatchScores is the state of a match after a scoring mutation. Version is
// the version the caller read; the write only succeeds if it is still current.
type MatchScores struct {
	MatchID    uint
	Version    int
	Team1Score int
	Team2Score int
	TotalScore float64
}

type SpielDAO struct {
	db *gorm.DB
}

func NewSpielDAO(db *gorm.DB) *SpielDAO {
	return &SpielDAO{
		db: db,
	}
}

// InsertMatch opens the next match of a session.
func (d *SpielDAO) InsertMatch(ctx context.Context, sessionID uint) (Match, error) {
	match := Match{SessionID: sessionID, Version: 1}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var highest int
		if err := tx.Model(&Match{}).
			Where("session_id = ?", sessionID).
			Select("COALESCE(MAX(number), 0)").
			Scan(&highest).Error; err != nil {
			return err
		}
		match.Number = highest + 1

		return tx.Omit(clause.Associations).Create(&match).Error
	})
	if err != nil {
		switch {
		case isUniqueViolation(err, "idx_matches_session_number"):
			return Match{}, ErrMatchConflict
		case isForeignKeyViolation(err):
			return Match{}, ErrSessionNotFound
		}
		return Match{}, err
	}

	return match, nil
}

func (d *SpielDAO) FindMatchByID(ctx context.Context, id uint) (Match, error) {
	var match Match

	result := d.db.WithContext(ctx).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Rounds.Weis", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&match, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Match{}, ErrMatchNotFound
		}

		return Match{}, result.Error
	}

	return match, nil
}

func (d *SpielDAO) DeleteMatch(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Match{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (d *SpielDAO) FindRoundByID(ctx context.Context, id uint) (Round, error) {
	var round Round

	result := d.db.WithContext(ctx).
		Preload("Weis", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&round, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Round{}, ErrRoundNotFound
		}

		return Round{}, result.Error
	}

	return round, nil
}

// InsertRound stores round and the match scores it produced in one
// transaction.
func (d *SpielDAO) InsertRound(ctx context.Context, scores MatchScores, round Round) (Round, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&round).Error; err != nil {
			if isUniqueViolation(err, "idx_rounds_match_number") {
				return ErrMatchConflict
			}
			return err
		}

		return updateMatchScores(tx, scores)
	})
	if err != nil {
		return Round{}, err
	}

	return round, nil
}

// UpdateRound rewrites the score-composing fields of round.
func (d *SpielDAO) UpdateRound(ctx context.Context, scores MatchScores, round Round) (Round, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Round{ID: round.ID}).
			Select("Farbe", "Team1Score", "Team2Score", "Multiplier",
				"StoeckTeam1Player1", "StoeckTeam1Player2", "StoeckTeam2Player1", "StoeckTeam2Player2").
			Updates(&round)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoundNotFound
		}

		return updateMatchScores(tx, scores)
	})
	if err != nil {
		return Round{}, err
	}

	return d.FindRoundByID(ctx, round.ID)
}

func (d *SpielDAO) DeleteRound(ctx context.Context, scores MatchScores, roundID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Round{}, roundID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoundNotFound
		}

		return updateMatchScores(tx, scores)
	})
}

func (d *SpielDAO) InsertWeis(ctx context.Context, scores MatchScores, weis Weis) (Weis, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&weis).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrPlayerNotFound
			}
			return err
		}

		return updateMatchScores(tx, scores)
	})
	if err != nil {
		return Weis{}, err
	}

	return weis, nil
}

// updateMatchScores writes scores and bumps the version, provided nobody
// else bumped it since the caller read the match.
func updateMatchScores(tx *gorm.DB, scores MatchScores) error {
	result := tx.Model(&Match{}).
		Where("id = ? AND version = ?", scores.MatchID, scores.Version).
		Updates(map[string]interface{}{
			"team1_score": scores.Team1Score,
			"team2_score": scores.Team2Score,
			"total_score": scores.TotalScore,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&Match{}).Where("id = ?", scores.MatchID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrMatchNotFound
	}

	return ErrMatchConflict
}
