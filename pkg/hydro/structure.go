package hydro

import (
	"maps"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// Kind identifies a structure variant.
type Kind string

// Structure kinds.
const (
	KindBarrier  Kind = "barrier"
	KindDam      Kind = "dam"
	KindCrossing Kind = "crossing"
)

// Structure is a point feature on a reach: a barrier, dam or road-stream
// crossing. Structures link downstream to other structures.
//
// A structure belongs to exactly one Reach, set when the reach is created.
type Structure interface {
	ordered.Entity

	// SetDown links the structure to the next structure downstream.
	// See [ordered.Node.SetDown].
	SetDown(e ordered.Entity) error
	// Kind returns the structure variant.
	Kind() Kind
	// Position returns the fractional position along the reach, in [0,1].
	Position() float64
	// Country returns the country the structure is located in.
	Country() string
	// Reach returns the owning reach, or nil before one is assigned.
	Reach() *Reach
	// Tributary returns the tributary spanning the owning reach, if any.
	Tributary() *Tributary

	base() *site
}

// site holds the attributes common to all structures.
type site struct {
	ordered.Node

	fprop     float64
	country   string
	reach     *Reach
	tributary *Tributary
}

func newSite(id string, fprop float64, country string) (site, error) {
	if err := errors.ValidateID(id); err != nil {
		return site{}, err
	}
	if err := errors.ValidateFraction("fprop", fprop); err != nil {
		return site{}, err
	}
	return site{Node: ordered.NewNode(id), fprop: fprop, country: country}, nil
}

func (s *site) Position() float64     { return s.fprop }
func (s *site) Country() string       { return s.country }
func (s *site) Reach() *Reach         { return s.reach }
func (s *site) Tributary() *Tributary { return s.tributary }
func (s *site) base() *site           { return s }

// SetPosition moves the structure along its reach. fprop must be in [0,1].
func (s *site) SetPosition(fprop float64) error {
	if err := errors.ValidateFraction("fprop", fprop); err != nil {
		return err
	}
	s.fprop = fprop
	return nil
}

// BarrierAttrs are the attributes of a generic barrier.
type BarrierAttrs struct {
	FProp   float64 // fractional position along the reach, in [0,1]
	Country string
	Cost    Measure // cost of making the barrier fully passable
	Habitat Measure // habitat upstream, up to the next barriers
	// Passabilities maps a fish guild to the fraction able to pass, in [0,1].
	Passabilities map[string]float64
}

// Barrier is a structure that impedes fish movement.
type Barrier struct {
	site

	cost          Measure
	habitat       Measure
	passabilities map[string]float64
}

// NewBarrier creates a terminal barrier. It returns a constraint violation
// if the position or any passability lies outside [0,1] or the cost or
// habitat is negative.
func NewBarrier(id string, a BarrierAttrs) (*Barrier, error) {
	b, err := newBarrier(id, a)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func newBarrier(id string, a BarrierAttrs) (Barrier, error) {
	s, err := newSite(id, a.FProp, a.Country)
	if err != nil {
		return Barrier{}, err
	}
	if err := validateMeasure("cost", a.Cost); err != nil {
		return Barrier{}, err
	}
	if err := validateMeasure("habitat", a.Habitat); err != nil {
		return Barrier{}, err
	}
	b := Barrier{site: s, cost: a.Cost, habitat: a.Habitat, passabilities: make(map[string]float64, len(a.Passabilities))}
	for guild, v := range a.Passabilities {
		if err := b.SetPassability(guild, v); err != nil {
			return Barrier{}, err
		}
	}
	return b, nil
}

// Kind returns KindBarrier.
func (b *Barrier) Kind() Kind { return KindBarrier }

// Cost returns the cost of making the barrier fully passable.
func (b *Barrier) Cost() Measure { return b.cost }

// Habitat returns the upstream habitat opened by removing the barrier.
func (b *Barrier) Habitat() Measure { return b.habitat }

// Passability returns the passability for guild and whether it is known.
func (b *Barrier) Passability(guild string) (float64, bool) {
	v, ok := b.passabilities[guild]
	return v, ok
}

// Passabilities returns a copy of the guild passabilities.
func (b *Barrier) Passabilities() map[string]float64 { return maps.Clone(b.passabilities) }

// SetPassability sets the passability for guild. v must be in [0,1].
func (b *Barrier) SetPassability(guild string, v float64) error {
	if err := errors.ValidateFraction("passability "+guild, v); err != nil {
		return err
	}
	b.passabilities[guild] = v
	return nil
}

// AsBarrier returns the barrier part of any barrier variant.
func (b *Barrier) AsBarrier() *Barrier { return b }

// BarrierOf returns the barrier attributes of s, if s is a barrier variant.
func BarrierOf(s Structure) (*Barrier, bool) {
	if b, ok := s.(interface{ AsBarrier() *Barrier }); ok {
		return b.AsBarrier(), true
	}
	return nil, false
}

// DamAttrs are the attributes of a dam.
type DamAttrs struct {
	BarrierAttrs
	Width  Measure // river-spanning width
	Height Measure // vertical height
	Length Measure // upstream to downstream length
}

// Dam is a barrier with surveyed dimensions.
type Dam struct {
	Barrier

	width, height, length Measure
}

// NewDam creates a terminal dam. Dimensions must be non-negative or
// undefined.
func NewDam(id string, a DamAttrs) (*Dam, error) {
	b, err := newBarrier(id, a.BarrierAttrs)
	if err != nil {
		return nil, err
	}
	for _, d := range []struct {
		name string
		m    Measure
	}{{"width", a.Width}, {"height", a.Height}, {"length", a.Length}} {
		if err := validateMeasure("dam "+d.name, d.m); err != nil {
			return nil, err
		}
	}
	return &Dam{Barrier: b, width: a.Width, height: a.Height, length: a.Length}, nil
}

// Kind returns KindDam.
func (d *Dam) Kind() Kind { return KindDam }

func (d *Dam) Width() Measure  { return d.width }
func (d *Dam) Height() Measure { return d.height }
func (d *Dam) Length() Measure { return d.length }

// CrossingAttrs are the attributes of a road-stream crossing.
type CrossingAttrs struct {
	BarrierAttrs
	Width         Measure
	Drop          Measure // outlet drop height
	Length        Measure
	BankfullWidth Measure // stream width at bankfull discharge
}

// RoadStreamCrossing is a barrier where a road crosses a stream, typically
// through a culvert.
type RoadStreamCrossing struct {
	Barrier

	width, drop, length, bankfull Measure
}

// NewRoadStreamCrossing creates a terminal road-stream crossing. Dimensions
// must be non-negative or undefined.
func NewRoadStreamCrossing(id string, a CrossingAttrs) (*RoadStreamCrossing, error) {
	b, err := newBarrier(id, a.BarrierAttrs)
	if err != nil {
		return nil, err
	}
	for _, d := range []struct {
		name string
		m    Measure
	}{{"width", a.Width}, {"drop", a.Drop}, {"length", a.Length}, {"bankfull width", a.BankfullWidth}} {
		if err := validateMeasure("crossing "+d.name, d.m); err != nil {
			return nil, err
		}
	}
	return &RoadStreamCrossing{
		Barrier:  b,
		width:    a.Width,
		drop:     a.Drop,
		length:   a.Length,
		bankfull: a.BankfullWidth,
	}, nil
}

// Kind returns KindCrossing.
func (c *RoadStreamCrossing) Kind() Kind { return KindCrossing }

func (c *RoadStreamCrossing) Width() Measure         { return c.width }
func (c *RoadStreamCrossing) Drop() Measure          { return c.drop }
func (c *RoadStreamCrossing) Length() Measure        { return c.length }
func (c *RoadStreamCrossing) BankfullWidth() Measure { return c.bankfull }

func validateMeasure(name string, m Measure) error {
	if v, ok := m.Get(); ok {
		return errors.ValidateNonNegative(name, v)
	}
	return nil
}
