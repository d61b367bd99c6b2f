// Package pipeline is a headless kanban board for one job's applications.
//
// Board is an immutable snapshot; every transition returns a new Board.
// Controller wraps a Board, applies moves optimistically and reconciles
// them with the server.
package pipeline

import (
	"errors"
	"time"

	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/models"
)

var ErrUnknownCard = errors.New("pipeline: unknown card")

// Card is one application on the board.
type Card struct {
	ID                  string
	Status              models.ApplicationStatus
	CandidateID         string
	CandidateName       string
	CandidateEmail      string
	CandidateExperience int
	CandidateSkills     []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CardFromDTO converts a listByJob row.
func CardFromDTO(row dtos.ApplicationCard) Card {
	return Card{
		ID:                  row.ID,
		Status:              row.Status,
		CandidateID:         row.CandidateID,
		CandidateName:       row.CandidateName,
		CandidateEmail:      row.CandidateEmail,
		CandidateExperience: row.CandidateExperience,
		CandidateSkills:     row.CandidateSkills,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

// Move is an optimistic status change awaiting server confirmation.
type Move struct {
	ID   string
	From models.ApplicationStatus
	To   models.ApplicationStatus
	// Seq is the card's move counter after this move.
	Seq uint64
}

// Column is one status lane of the board.
type Column struct {
	Status models.ApplicationStatus
	Label  string
	Cards  []Card
}

// track is the per-card reconciliation state.
type track struct {
	seq uint64
	// confirmed is the last status the server is known to hold.
	confirmed    models.ApplicationStatus
	confirmedSeq uint64
	inflight     []Move
}

// without returns the in-flight moves other than seq in a fresh slice.
func (t track) without(seq uint64) []Move {
	out := make([]Move, 0, len(t.inflight))
	for _, m := range t.inflight {
		if m.Seq != seq {
			out = append(out, m)
		}
	}
	return out
}

// newest returns the highest-sequence in-flight move, if any.
func (t track) newest() (Move, bool) {
	var top Move
	found := false
	for _, m := range t.inflight {
		if !found || m.Seq > top.Seq {
			top, found = m, true
		}
	}
	return top, found
}

type Board struct {
	order   []string
	cards   map[string]Card
	tracks  map[string]track
	grabbed string
}

// NewBoard builds a board from cards in display order. Later duplicates
// of an id are ignored.
func NewBoard(cards []Card) Board {
	b := Board{
		order:  make([]string, 0, len(cards)),
		cards:  make(map[string]Card, len(cards)),
		tracks: make(map[string]track, len(cards)),
	}
	for _, c := range cards {
		if _, dup := b.cards[c.ID]; dup {
			continue
		}
		b.order = append(b.order, c.ID)
		b.cards[c.ID] = c
		b.tracks[c.ID] = track{confirmed: c.Status}
	}
	return b
}

func (b Board) clone() Board {
	out := Board{
		order:   b.order, // never mutated after NewBoard
		cards:   make(map[string]Card, len(b.cards)),
		tracks:  make(map[string]track, len(b.tracks)),
		grabbed: b.grabbed,
	}
	for k, v := range b.cards {
		out.cards[k] = v
	}
	// inflight slices are replaced, never appended to in place.
	for k, v := range b.tracks {
		out.tracks[k] = v
	}
	return out
}

// Len returns the number of cards.
func (b Board) Len() int { return len(b.order) }

// Card returns the card with id.
func (b Board) Card(id string) (Card, bool) {
	c, ok := b.cards[id]
	return c, ok
}

// Cards returns all cards in insertion order.
func (b Board) Cards() []Card {
	out := make([]Card, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.cards[id])
	}
	return out
}

// Grabbed returns the id of the card being dragged, or "".
func (b Board) Grabbed() string { return b.grabbed }

// Seq returns the card's move counter.
func (b Board) Seq(id string) uint64 { return b.tracks[id].seq }

// Confirmed returns the last status the server acknowledged for id, or the
// loaded status when no move has succeeded yet.
func (b Board) Confirmed(id string) models.ApplicationStatus { return b.tracks[id].confirmed }

// Pending returns the number of unanswered moves of id.
func (b Board) Pending(id string) int { return len(b.tracks[id].inflight) }

// BeginMove records id as the grabbed card.
func (b Board) BeginMove(id string) (Board, error) {
	if _, ok := b.cards[id]; !ok {
		return b, ErrUnknownCard
	}
	out := b.clone()
	out.grabbed = id
	return out, nil
}

// CancelMove drops the grab without changing anything else.
func (b Board) CancelMove() Board {
	if b.grabbed == "" {
		return b
	}
	out := b.clone()
	out.grabbed = ""
	return out
}

// resolveTarget maps a drop target to a status. A target is either a
// status name or the id of a card, meaning that card's column.
func (b Board) resolveTarget(target string) (models.ApplicationStatus, bool) {
	if st := models.ApplicationStatus(target); st.Valid() {
		return st, true
	}
	if c, ok := b.cards[target]; ok {
		return c.Status, true
	}
	return "", false
}

// ResolveMove drops the grabbed card on target. The grab is always
// cleared. It returns a Move only when the card's status changed.
func (b Board) ResolveMove(target string) (Board, Move, bool) {
	out := b.CancelMove()
	if b.grabbed == "" {
		return out, Move{}, false
	}
	card, ok := b.cards[b.grabbed]
	if !ok {
		return out, Move{}, false
	}
	to, ok := b.resolveTarget(target)
	if !ok || to == card.Status {
		return out, Move{}, false
	}

	tr := out.tracks[card.ID]
	move := Move{ID: card.ID, From: card.Status, To: to, Seq: tr.seq + 1}
	card.Status = to
	out.cards[card.ID] = card

	inflight := make([]Move, 0, len(tr.inflight)+1)
	inflight = append(inflight, tr.inflight...)
	tr.inflight = append(inflight, move)
	tr.seq = move.Seq
	out.tracks[card.ID] = tr
	return out, move, true
}

// ConfirmMove records that the server accepted m. Unless a newer move of
// the card is still awaiting a reply, the card shows the newest confirmed
// status.
func (b Board) ConfirmMove(m Move) Board {
	card, ok := b.cards[m.ID]
	if !ok {
		return b
	}
	out := b.clone()
	tr := out.tracks[m.ID]
	tr.inflight = tr.without(m.Seq)
	if m.Seq > tr.confirmedSeq {
		tr.confirmed, tr.confirmedSeq = m.To, m.Seq
	}
	if top, pending := tr.newest(); !pending || top.Seq < m.Seq {
		card.Status = tr.confirmed
		out.cards[m.ID] = card
	}
	out.tracks[m.ID] = tr
	return out
}

// RevertMove records that the server rejected m. While a newer move of the
// card is in flight the card is left alone. Otherwise it falls back to the
// newest older move still in flight, or to the last confirmed status. The
// bool reports whether the card's status changed.
func (b Board) RevertMove(m Move) (Board, bool) {
	card, ok := b.cards[m.ID]
	if !ok {
		return b, false
	}
	out := b.clone()
	tr := out.tracks[m.ID]
	tr.inflight = tr.without(m.Seq)
	out.tracks[m.ID] = tr

	before := card.Status
	if top, pending := tr.newest(); pending {
		if top.Seq > m.Seq {
			return out, false
		}
		card.Status = top.To
	} else {
		card.Status = tr.confirmed
	}
	out.cards[m.ID] = card
	return out, card.Status != before
}

// Columns projects the cards into the six status lanes in fixed order.
func (b Board) Columns() []Column {
	cols := make([]Column, len(models.ApplicationStatuses))
	index := make(map[models.ApplicationStatus]int, len(cols))
	for i, st := range models.ApplicationStatuses {
		cols[i] = Column{Status: st, Label: st.Label(), Cards: []Card{}}
		index[st] = i
	}
	for _, id := range b.order {
		c := b.cards[id]
		if i, ok := index[c.Status]; ok {
			cols[i].Cards = append(cols[i].Cards, c)
		}
	}
	return cols
}
