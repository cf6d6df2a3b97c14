package domain

import (
	"errors"
	"time"
)

var ErrUnknownWeisTyp = errors.New("unknown weis type")

// WeisTyp is the meld pattern a player declares.
type WeisTyp string

const (
	WeisDreiblatt   WeisTyp = "Dreiblatt"
	WeisVierblatt   WeisTyp = "Vierblatt"
	WeisFuenfblatt  WeisTyp = "Fünfblatt"
	WeisSechsblatt  WeisTyp = "Sechsblatt"
	WeisSiebenblatt WeisTyp = "Siebenblatt"
	WeisAchtblatt   WeisTyp = "Achtblatt"
	WeisNeunblatt   WeisTyp = "Neunblatt"
	WeisVierGleiche WeisTyp = "VierGleiche"
	WeisVierNeuner  WeisTyp = "VierNeuner"
	WeisVierBuure   WeisTyp = "VierBuure"
)

var weisPoints = map[WeisTyp]int{
	WeisDreiblatt:   20,
	WeisVierblatt:   50,
	WeisFuenfblatt:  100,
	WeisSechsblatt:  150,
	WeisSiebenblatt: 200,
	WeisAchtblatt:   250,
	WeisNeunblatt:   300,
	WeisVierGleiche: 100,
	WeisVierNeuner:  150,
	WeisVierBuure:   200,
}

func (t WeisTyp) IsValid() bool {
	_, ok := weisPoints[t]
	return ok
}

// DefaultPoints is the value of a single meld of this type, 0 if unknown.
func (t WeisTyp) DefaultPoints() int {
	return weisPoints[t]
}

// WeisTypNames returns the known meld types as plain strings.
func WeisTypNames() []interface{} {
	names := make([]interface{}, 0, len(weisPoints))
	for t := range weisPoints {
		names = append(names, string(t))
	}

	return names
}

type Weis struct {
	ID        uint      `json:"id"`
	RoundID   uint      `json:"runde_id"`
	PlayerID  uint      `json:"player_id"`
	Typ       WeisTyp   `json:"typ"`
	Anzahl    int       `json:"anzahl"`
	Punkte    int       `json:"punkte"`
	CreatedAt time.Time `json:"created_at"`
}

// Points is the contribution of this declaration, identical melds counted
// Anzahl times.
func (w Weis) Points() int {
	return w.Punkte * w.Anzahl
}
