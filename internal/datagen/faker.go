//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic catalog and event input files.
package datagen

import (
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// FirstName generates a random first name.
func (f *Faker) FirstName() string {
	return f.faker.FirstName()
}

// LastName generates a random last name.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Gender returns "M" or "F".
func (f *Faker) Gender() string {
	if f.faker.Gender() == "female" {
		return "F"
	}
	return "M"
}

// Location returns a "City, ST" string in the style of the event logs.
func (f *Faker) Location() string {
	return f.faker.City() + ", " + f.faker.StateAbr()
}

// UserAgent generates a random browser user agent.
func (f *Faker) UserAgent() string {
	return f.faker.UserAgent()
}

// Title generates a two word title such as "Quiet River".
func (f *Faker) Title() string {
	return capitalize(f.faker.Adjective()) + " " + capitalize(f.faker.Noun())
}

// Latitude generates a random latitude.
func (f *Faker) Latitude() float64 {
	return f.faker.Latitude()
}

// Longitude generates a random longitude.
func (f *Faker) Longitude() float64 {
	return f.faker.Longitude()
}

// ID generates an identifier of prefix followed by n upper-case letters,
// e.g. "SOABCDEFGH" for ID("SO", 8).
func (f *Faker) ID(prefix string, n int) string {
	return prefix + strings.ToUpper(f.faker.LetterN(uint(n)))
}

// DateRange generates a random date within a range.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Chance reports true with the given probability.
func (f *Faker) Chance(p float64) bool {
	return f.Float64(0, 1) < p
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// Nullable returns a pointer to v, or nil with the given probability.
func Nullable[T any](f *Faker, v T, nullProbability float64) *T {
	if f.Chance(nullProbability) {
		return nil
	}
	return &v
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
