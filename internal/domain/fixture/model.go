package fixture

import (
	"strconv"
	"strings"
	"time"
)

// Fixture is one match as served by the proxy API: the API-Sports response
// item shape, passed through unchanged so the engine and the proxy agree on
// the wire format. Events, Statistics and Lineups are populated only by the
// fixture-detail endpoint.
type Fixture struct {
	Fixture    Core             `json:"fixture"`
	League     League           `json:"league"`
	Teams      Teams            `json:"teams"`
	Goals      Goals            `json:"goals"`
	Events     []Event          `json:"events,omitempty"`
	Statistics []TeamStatistics `json:"statistics,omitempty"`
	Lineups    []Lineup         `json:"lineups,omitempty"`
}

type Core struct {
	ID     int64     `json:"id"`
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
}

type Status struct {
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Flag    string `json:"flag"`
	Logo    string `json:"logo"`
}

type Teams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Goals are nil before kickoff.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Event struct {
	Time   EventTime `json:"time"`
	Team   Team      `json:"team"`
	Player Person    `json:"player"`
	Assist Person    `json:"assist"`
	Type   string    `json:"type"`
	Detail string    `json:"detail"`
}

type EventTime struct {
	Elapsed int  `json:"elapsed"`
	Extra   *int `json:"extra"`
}

type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TeamStatistics holds one side's stat rows for the detail view.
type TeamStatistics struct {
	Team       Team        `json:"team"`
	Statistics []StatValue `json:"statistics"`
}

// StatValue carries a heterogeneous value: integer, "57%" string or null.
type StatValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Numeric flattens the provider value to a float: percent strings are
// stripped, null and unparseable values count as zero.
func (v StatValue) Numeric() float64 {
	switch typed := v.Value.(type) {
	case nil:
		return 0
	case float64:
		return typed
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(typed), "%")
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

type Lineup struct {
	Team      Team         `json:"team"`
	Formation string       `json:"formation"`
	StartXI   []LineupSlot `json:"startXI"`
}

type LineupSlot struct {
	Player LineupPlayer `json:"player"`
}

// LineupPlayer carries the provider grid position as "row:col".
type LineupPlayer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Pos    string `json:"pos"`
	Grid   string `json:"grid"`
}

// GridPosition splits the "row:col" grid string. Missing or malformed grids
// report ok=false and the player is left off the pitch diagram.
func (p LineupPlayer) GridPosition() (row, col int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(p.Grid), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	row, errRow := strconv.Atoi(strings.TrimSpace(parts[0]))
	col, errCol := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errRow != nil || errCol != nil || row <= 0 || col <= 0 {
		return 0, 0, false
	}
	return row, col, true
}

func (f Fixture) ID() int64 {
	return f.Fixture.ID
}
