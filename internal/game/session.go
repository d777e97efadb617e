package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/holdroom/holdroom/internal/deck"
)

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Session is the aggregate for one table: seated players, the shuffled
// deck, turn order, stage, and pot. It is a single-writer aggregate; every
// exported method takes the session lock and actions are applied strictly
// in the order they are accepted. The engine performs no I/O and never
// blocks; mutations return the structured events they produced.
type Session struct {
	mu sync.Mutex

	tableID string
	hostID  string
	cfg     SessionConfig
	blind   decimal.Decimal

	round        int
	ongoingGame  bool
	ongoingRound bool
	finished     bool

	startedAt    time.Time
	lastActivity time.Time

	deck  *deck.Deck
	board []deck.Card

	players map[string]*Player
	order   []string // seating order, locked once a round starts

	dealer     int
	smallBlind int
	bigBlind   int
	turn       int
	// opener is the seat the current stage's action must return to: the
	// last raiser, or the first-to-act seat when nobody has raised yet.
	opener int

	bet decimal.Decimal
	pot decimal.Decimal
}

// NewSession creates a session for a table, seats the host at the buy-in
// stack, and shuffles the working deck exactly once. A zero seed derives
// one from the clock.
func NewSession(tableID, hostID, hostName string, cfg SessionConfig, seed int64, now time.Time) *Session {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Session{
		tableID:      tableID,
		hostID:       hostID,
		cfg:          cfg,
		blind:        cfg.BuyIn.Div(hundred),
		round:        1,
		startedAt:    now,
		lastActivity: now,
		deck:         deck.New().Shuffled(rng),
		players:      make(map[string]*Player),
		dealer:       0,
		smallBlind:   1,
		bigBlind:     2,
		turn:         -1,
		bet:          decimal.Zero,
		pot:          decimal.Zero,
	}
	s.seat(hostID, hostName)
	return s
}

func (s *Session) seat(id, name string) *Player {
	p := newPlayer(id, name, s.cfg.BuyIn)
	s.players[id] = p
	s.order = append(s.order, id)
	return p
}

// Join seats a player at the buy-in stack. Players can only join while no
// round has ever started; seating order is insertion order.
func (s *Session) Join(id, name string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil, ErrNoActiveSession
	}
	if s.ongoingGame {
		return nil, ErrGameInProgress
	}
	if _, ok := s.players[id]; ok {
		return nil, ErrAlreadyJoined
	}

	p := s.seat(id, name)
	return []Event{PlayerJoined{Player: p.ID, Name: p.Name, Stack: p.Stack}}, nil
}

// Start begins a round: host only, at least 3 seated players, none already
// in progress. It posts the blinds (small blind half a unit, big blind a
// full unit), sets the table bet to the blind unit, and hands action to
// the seat after the big blind.
func (s *Session) Start(callerID string, now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil, ErrNoActiveSession
	}
	if s.ongoingRound {
		return nil, ErrRoundInProgress
	}
	if !s.pot.IsZero() {
		// A showdown pot is still on the table; it has to be settled by
		// cancellation before another round can begin.
		return nil, ErrRoundInProgress
	}
	if callerID != s.hostID {
		return nil, ErrNotHost
	}
	if len(s.order) < 3 {
		return nil, ErrNotEnoughPlayers
	}

	sb := s.players[s.order[s.smallBlind]]
	bb := s.players[s.order[s.bigBlind]]
	half := s.blind.Div(two)
	if half.GreaterThan(sb.Stack) || s.blind.GreaterThan(bb.Stack) {
		return nil, ErrInsufficientFunds
	}

	s.ongoingGame = true
	s.ongoingRound = true
	s.startedAt = now
	s.lastActivity = now
	s.board = nil
	for _, id := range s.order {
		s.players[id].resetForRound()
	}

	_ = sb.commit(half)
	_ = bb.commit(s.blind)
	s.bet = s.blind
	s.turn = (s.bigBlind + 1) % len(s.order)
	s.opener = s.turn

	return []Event{RoundStarted{
		Round:      s.round,
		Dealer:     s.order[s.dealer],
		SmallBlind: sb.ID,
		BigBlind:   bb.ID,
		Bet:        s.bet,
		NextToAct:  s.order[s.turn],
	}}, nil
}

// Act applies a betting action for the caller. Validation completes in
// full before any field is written; a rejected action leaves the session
// unchanged. The amount is only meaningful for raises.
func (s *Session) Act(callerID string, kind ActionKind, amount decimal.Decimal, now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || !s.ongoingRound {
		return nil, ErrNoActiveSession
	}
	p, ok := s.players[callerID]
	if !ok {
		return nil, ErrNotParticipant
	}
	if callerID != s.order[s.turn] {
		return nil, ErrOutOfTurn
	}

	// Calling into an empty pot is just a check.
	if kind == ActionCall && s.bet.IsZero() {
		kind = ActionCheck
	}

	switch kind {
	case ActionFold:
		if s.bet.IsZero() {
			return nil, ErrPointlessFold
		}
		p.Status = StatusFolded

	case ActionCheck:
		if !s.bet.IsZero() && !p.Committed.Equal(s.bet) {
			return nil, ErrCannotCheck
		}

	case ActionCall:
		if s.bet.GreaterThanOrEqual(p.Stack.Add(p.Committed)) {
			return nil, ErrMustGoAllIn
		}
		_ = p.commit(s.bet.Sub(p.Committed))

	case ActionRaise:
		if !amount.IsPositive() {
			return nil, ErrInvalidRaiseAmount
		}
		if s.bet.GreaterThanOrEqual(p.Stack.Add(p.Committed)) {
			return nil, ErrMustGoAllIn
		}
		newBet := s.bet.Add(amount)
		if newBet.Sub(p.Committed).GreaterThan(p.Stack) {
			return nil, ErrMustGoAllIn
		}
		_ = p.commit(newBet.Sub(p.Committed))
		s.bet = newBet
		s.opener = s.turn

	case ActionAllIn:
		_ = p.commit(p.Stack)
		p.Status = StatusAllIn
		if p.Committed.GreaterThan(s.bet) {
			// A covering all-in raises the table bet and reopens action.
			s.bet = p.Committed
			s.opener = s.turn
		}

	default:
		panic("game: unknown action kind")
	}

	s.lastActivity = now
	events := []Event{ActionTaken{
		Player: p.ID,
		Kind:   kind,
		Bet:    s.bet,
		AllIn:  p.Status == StatusAllIn,
	}}
	return s.advance(events), nil
}

// AttemptCancel tears the session down. After the session timeout anyone
// may cancel; before that only the host. Teardown refunds every player's
// stack plus everything they committed this round.
func (s *Session) AttemptCancel(callerID string, now time.Time) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return nil, ErrNoActiveSession
	}
	if now.Sub(s.startedAt) > s.cfg.SessionTimeout {
		return s.teardown(CancelledTimeout, nil), nil
	}
	if callerID != s.hostID {
		return nil, ErrNotHost
	}
	return s.teardown(CancelledByHost, nil), nil
}

// ExpireTurn force-acts the current player once they have been idle past
// the turn timeout: a check when there is nothing to call, a fold
// otherwise. It returns nil when nothing expired.
func (s *Session) ExpireTurn(now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || !s.ongoingRound || s.cfg.TurnTimeout <= 0 {
		return nil
	}
	if now.Sub(s.lastActivity) <= s.cfg.TurnTimeout {
		return nil
	}

	p := s.players[s.order[s.turn]]
	forced := ActionCheck
	if !s.bet.IsZero() && !p.Committed.Equal(s.bet) {
		forced = ActionFold
		p.Status = StatusFolded
	}
	s.lastActivity = now

	events := []Event{
		TurnExpired{Player: p.ID, Forced: forced},
		ActionTaken{Player: p.ID, Kind: forced, Bet: s.bet},
	}
	return s.advance(events)
}

// ExpireSession tears the session down once it has sat idle past the
// session timeout, refunding as a timeout cancellation would. This is how
// abandoned tables leave the registry without anyone calling cancel. It
// returns nil while the session is still live.
func (s *Session) ExpireSession(now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.cfg.SessionTimeout <= 0 {
		return nil
	}
	if now.Sub(s.lastActivity) <= s.cfg.SessionTimeout {
		return nil
	}
	return s.teardown(CancelledTimeout, nil)
}

// advance runs the post-action bookkeeping: fold-win short circuit, stage
// advancement once the orbit closes, otherwise handing the turn to the
// next active seat. Callers hold the lock.
func (s *Session) advance(events []Event) []Event {
	if w := s.foldWinner(); w != nil {
		return s.awardFoldWin(w, events)
	}

	if s.activeCount() == 0 {
		return s.advanceStage(events)
	}
	next := s.nextActiveFrom(s.turn + 1)
	if s.allMatched() && next == s.returnSeat() {
		return s.advanceStage(events)
	}

	for step := 1; step <= len(s.order); step++ {
		j := (s.turn + step) % len(s.order)
		q := s.players[s.order[j]]
		if q.Status == StatusActive {
			s.turn = j
			break
		}
		events = append(events, PlayerSkipped{Player: q.ID, Reason: q.Status})
	}
	return events
}

// advanceStage collects stage commitments into the pot and reveals the
// next community cards (0 -> 3 -> 4 -> 5). Completing river betting
// freezes the round behind a ShowdownReached event: hand ranking is not
// the engine's business.
func (s *Session) advanceStage(events []Event) []Event {
	s.collectCommitted()
	s.bet = decimal.Zero

	if len(s.board) == boardSizes[River] {
		s.ongoingRound = false
		return append(events, ShowdownReached{
			Board: s.boardCopy(),
			Pots:  potLayers(s.order, s.players),
		})
	}

	if len(s.board) == 0 {
		s.board = append(s.board, s.deck.Draw(), s.deck.Draw(), s.deck.Draw())
	} else {
		s.board = append(s.board, s.deck.Draw())
	}
	events = append(events, StageAdvanced{
		Stage: stageFor(len(s.board)),
		Board: s.boardCopy(),
	})

	s.opener = s.nextActiveFrom(s.dealer + 1)
	if s.opener == -1 {
		// Everybody left is all in: run the remaining stages out.
		return s.advanceStage(events)
	}
	s.turn = s.opener
	return events
}

func (s *Session) awardFoldWin(w *Player, events []Event) []Event {
	s.collectCommitted()
	events = append(events, RoundWonByFold{Winner: w.ID, Pot: s.pot})
	w.Stack = w.Stack.Add(s.pot)
	s.pot = decimal.Zero
	return s.endRound(events)
}

func (s *Session) endRound(events []Event) []Event {
	s.ongoingRound = false
	s.board = nil
	for _, id := range s.order {
		s.players[id].resetForRound()
	}
	s.round++
	if s.round > s.cfg.RoundLimit {
		return s.teardown(CancelledComplete, events)
	}
	return events
}

func (s *Session) teardown(reason CancelReason, events []Event) []Event {
	refunds := make(map[string]decimal.Decimal, len(s.order))
	for id, p := range s.players {
		refunds[id] = p.Stack.Add(p.roundTotal)
	}
	s.finished = true
	s.ongoingGame = false
	s.ongoingRound = false
	return append(events, SessionCancelled{Reason: reason, Refunds: refunds})
}

// collectCommitted moves every player's stage commitment into the pot.
func (s *Session) collectCommitted() {
	for _, id := range s.order {
		p := s.players[id]
		s.pot = s.pot.Add(p.Committed)
		p.Committed = decimal.Zero
	}
}

// foldWinner returns the single non-folded player once everyone else has
// folded, nil otherwise.
func (s *Session) foldWinner() *Player {
	folded := 0
	var last *Player
	for _, id := range s.order {
		p := s.players[id]
		if p.Status == StatusFolded {
			folded++
		} else {
			last = p
		}
	}
	if folded == len(s.order)-1 {
		return last
	}
	return nil
}

func (s *Session) activeCount() int {
	n := 0
	for _, id := range s.order {
		if s.players[id].Status == StatusActive {
			n++
		}
	}
	return n
}

// allMatched reports whether every active player's stage commitment equals
// the table bet. All-in and folded players are exempt.
func (s *Session) allMatched() bool {
	for _, id := range s.order {
		p := s.players[id]
		if p.Status == StatusActive && !p.Committed.Equal(s.bet) {
			return false
		}
	}
	return true
}

// returnSeat is where the orbit closes: the first active seat at or after
// the opener, in case the opener has since folded or gone all in.
func (s *Session) returnSeat() int {
	return s.nextActiveFrom(s.opener)
}

func (s *Session) nextActiveFrom(i int) int {
	n := len(s.order)
	for step := 0; step < n; step++ {
		j := ((i + step) % n + n) % n
		if s.players[s.order[j]].Status == StatusActive {
			return j
		}
	}
	return -1
}

func (s *Session) boardCopy() []deck.Card {
	return append([]deck.Card(nil), s.board...)
}

// TableID is the registry key this session was created under.
func (s *Session) TableID() string { return s.tableID }

// HostID identifies the player who created the session.
func (s *Session) HostID() string { return s.hostID }

// BuyIn is the stack every player is seated with.
func (s *Session) BuyIn() decimal.Decimal { return s.cfg.BuyIn }

// Finished reports whether the session has been torn down.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// PlayerState is a read-only copy of one seat for rendering.
type PlayerState struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Stack     decimal.Decimal `json:"stack"`
	Committed decimal.Decimal `json:"committed"`
	Status    Status          `json:"status"`
}

// State is a point-in-time snapshot of the session for the delivery layer.
type State struct {
	TableID    string          `json:"tableId"`
	Host       string          `json:"host"`
	Round      int             `json:"round"`
	RoundLimit int             `json:"roundLimit"`
	Stage      Stage           `json:"-"`
	StageName  string          `json:"stage"`
	Board      []deck.Card     `json:"board"`
	Bet        decimal.Decimal `json:"bet"`
	Pot        decimal.Decimal `json:"pot"`
	Ongoing    bool            `json:"ongoing"`
	NextToAct  string          `json:"nextToAct"`
	Currency   Currency        `json:"currency"`
	Players    []PlayerState   `json:"players"`
}

// State snapshots the session under the lock.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		TableID:    s.tableID,
		Host:       s.hostID,
		Round:      s.round,
		RoundLimit: s.cfg.RoundLimit,
		Stage:      stageFor(len(s.board)),
		Board:      s.boardCopy(),
		Bet:        s.bet,
		Pot:        s.pot,
		Ongoing:    s.ongoingRound,
		Currency:   s.cfg.Currency,
	}
	st.StageName = st.Stage.String()
	if s.ongoingRound && s.turn >= 0 {
		st.NextToAct = s.order[s.turn]
	}
	for _, id := range s.order {
		p := s.players[id]
		st.Players = append(st.Players, PlayerState{
			ID:        p.ID,
			Name:      p.Name,
			Stack:     p.Stack,
			Committed: p.Committed,
			Status:    p.Status,
		})
	}
	return st
}
