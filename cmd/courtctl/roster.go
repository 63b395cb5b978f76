package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Dosada05/rotation-players/models"
	"github.com/Dosada05/rotation-players/rating"
	"gopkg.in/yaml.v3"
)

// rosterFile is the on-disk roster format:
//
//	participants:
//	  - id: 1
//	    name: Ana
//	    wins: 3
//	    losses: 1
//	    points_for: 63
//	    points_against: 50
type rosterFile struct {
	Participants []rosterEntry `yaml:"participants"`
}

type rosterEntry struct {
	ID            int    `yaml:"id"`
	Name          string `yaml:"name"`
	Wins          int    `yaml:"wins"`
	Losses        int    `yaml:"losses"`
	PointsFor     int    `yaml:"points_for"`
	PointsAgainst int    `yaml:"points_against"`
}

var errEmptyRoster = errors.New("roster has no participants")

func loadRoster(path string) ([]models.Participant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return parseRoster(data)
}

// parseRoster декодирует ростер и вычисляет рейтинги; хранимый рейтинг не читается.
func parseRoster(data []byte) ([]models.Participant, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file rosterFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(file.Participants) == 0 {
		return nil, errEmptyRoster
	}

	roster := make([]models.Participant, 0, len(file.Participants))
	seen := make(map[int]bool, len(file.Participants))
	for i, e := range file.Participants {
		if e.ID <= 0 {
			return nil, fmt.Errorf("participant #%d: id must be positive", i+1)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("participant #%d: duplicate id %d", i+1, e.ID)
		}
		seen[e.ID] = true

		p, err := models.NewParticipant(e.ID, e.Name)
		if err != nil {
			return nil, fmt.Errorf("participant %d: %w", e.ID, err)
		}
		if e.Wins < 0 || e.Losses < 0 || e.PointsFor < 0 || e.PointsAgainst < 0 {
			return nil, fmt.Errorf("participant %d: counters must not be negative", e.ID)
		}
		p.Wins, p.Losses = e.Wins, e.Losses
		p.PointsFor, p.PointsAgainst = e.PointsFor, e.PointsAgainst
		p.Rating = rating.Compute(p)
		roster = append(roster, p)
	}
	return roster, nil
}

func namesByID(roster []models.Participant) map[int]string {
	names := make(map[int]string, len(roster))
	for _, p := range roster {
		names[p.ID] = p.Name
	}
	return names
}
