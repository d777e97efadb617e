package ws

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/holdroom/holdroom/internal/config"
	"github.com/holdroom/holdroom/internal/game"
	"github.com/holdroom/holdroom/internal/ledger"
)

// ConnCtx is the per-connection identity: which table the socket sits at
// and which player it speaks for.
type ConnCtx struct {
	TableID  string
	PlayerID string
	Name     string
}

// Server bridges socket traffic to the engine: inbound table:* commands
// become engine calls, engine events are broadcast to the table room, and
// buy-ins/refunds are settled against the ledger. The engine itself never
// does I/O.
type Server struct {
	rooms  *game.Manager
	ledger ledger.Ledger
	cfg    config.Config
	io     *socketio.Server
}

func New(rooms *game.Manager, l ledger.Ledger, cfg config.Config) *Server {
	return &Server{rooms: rooms, ledger: l, cfg: cfg}
}

// Mount attaches the Socket.IO server with all table handlers to the
// given gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "table:create", func(s socketio.Conn, payload struct {
		TableID string `json:"tableId"`
		Name    string `json:"name"`
		Rounds  int    `json:"rounds"`
		BuyIn   string `json:"buyIn"`
	}) map[string]any {
		if payload.Rounds == 0 {
			payload.Rounds = srv.cfg.DefaultRounds
		}
		if payload.BuyIn == "" {
			payload.BuyIn = srv.cfg.DefaultBuyIn
		}
		if payload.Rounds < 1 || payload.Rounds > game.MaxRoundLimit {
			return srv.engineFail(s, game.ErrInvalidRoundLimit)
		}
		buyIn, err := decimal.NewFromString(payload.BuyIn)
		if err != nil {
			return srv.fail(s, "invalid_buy_in", "buy-in is not a number")
		}
		minBuyIn, _ := decimal.NewFromString(srv.cfg.MinBuyIn)
		if buyIn.LessThan(minBuyIn) {
			return srv.fail(s, "invalid_buy_in", "buy-in is below the table minimum")
		}

		hostID := uuid.NewString()
		if err := srv.ledger.Debit(context.Background(), hostID, buyIn); err != nil {
			return srv.ledgerFail(s, err)
		}

		cfg := game.SessionConfig{
			RoundLimit: payload.Rounds,
			BuyIn:      buyIn,
			Currency: game.Currency{
				Symbol:    srv.cfg.CurrencySymbol,
				Precision: srv.cfg.CurrencyPrecision,
			},
			SessionTimeout: srv.cfg.SessionTimeout,
			TurnTimeout:    srv.cfg.TurnTimeout,
		}
		sess, err := srv.rooms.Create(payload.TableID, hostID, payload.Name, cfg, time.Now())
		if err != nil {
			_ = srv.ledger.Credit(context.Background(), hostID, buyIn)
			return srv.engineFail(s, err)
		}

		s.SetContext(&ConnCtx{TableID: payload.TableID, PlayerID: hostID, Name: payload.Name})
		s.Join(payload.TableID)
		log.Info().Str("table", payload.TableID).Str("host", hostID).Msg("table:create")
		return map[string]any{"tableId": sess.TableID(), "playerId": hostID}
	})

	io.OnEvent("/", "table:join", func(s socketio.Conn, payload struct {
		TableID string `json:"tableId"`
		Name    string `json:"name"`
	}) map[string]any {
		sess, err := srv.rooms.Get(payload.TableID)
		if err != nil {
			return srv.engineFail(s, err)
		}

		playerID := uuid.NewString()
		buyIn := sess.BuyIn()
		if err := srv.ledger.Debit(context.Background(), playerID, buyIn); err != nil {
			return srv.ledgerFail(s, err)
		}
		events, err := sess.Join(playerID, payload.Name)
		if err != nil {
			_ = srv.ledger.Credit(context.Background(), playerID, buyIn)
			return srv.engineFail(s, err)
		}

		s.SetContext(&ConnCtx{TableID: payload.TableID, PlayerID: playerID, Name: payload.Name})
		s.Join(payload.TableID)
		log.Info().Str("table", payload.TableID).Str("player", playerID).Msg("table:join")
		srv.deliver(payload.TableID, events)
		return map[string]any{"playerId": playerID}
	})

	io.OnEvent("/", "table:start", func(s socketio.Conn, _ struct{}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.rooms.Get(ctx.TableID)
		if err != nil {
			return srv.engineFail(s, err)
		}
		events, err := sess.Start(ctx.PlayerID, time.Now())
		if err != nil {
			return srv.engineFail(s, err)
		}
		log.Info().Str("table", ctx.TableID).Msg("table:start")
		srv.deliver(ctx.TableID, events)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "table:act", func(s socketio.Conn, payload struct {
		Kind   string `json:"kind"`
		Amount string `json:"amount"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.rooms.Get(ctx.TableID)
		if err != nil {
			return srv.engineFail(s, err)
		}

		kind, ok := actionKinds[payload.Kind]
		if !ok {
			return srv.fail(s, "invalid_action", "unknown action kind")
		}
		amount := decimal.Zero
		if kind == game.ActionRaise {
			amount, err = decimal.NewFromString(payload.Amount)
			if err != nil {
				return srv.engineFail(s, game.ErrInvalidRaiseAmount)
			}
		}

		events, err := sess.Act(ctx.PlayerID, kind, amount, time.Now())
		if err != nil {
			return srv.engineFail(s, err)
		}
		srv.deliver(ctx.TableID, events)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "table:cancel", func(s socketio.Conn, _ struct{}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.rooms.Get(ctx.TableID)
		if err != nil {
			return srv.engineFail(s, err)
		}
		events, err := sess.AttemptCancel(ctx.PlayerID, time.Now())
		if err != nil {
			return srv.engineFail(s, err)
		}
		log.Info().Str("table", ctx.TableID).Msg("table:cancel")
		srv.deliver(ctx.TableID, events)
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "table:state", func(s socketio.Conn, _ struct{}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.rooms.Get(ctx.TableID)
		if err != nil {
			return srv.engineFail(s, err)
		}
		s.Emit("table:state", sess.State())
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, err error) {
		log.Error().Err(err).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	return io
}

// Sweep expires stalled turns across all tables and delivers whatever the
// engine produced. Driven by a ticker in main.
func (srv *Server) Sweep(now time.Time) {
	for tableID, events := range srv.rooms.Sweep(now) {
		srv.deliver(tableID, events)
	}
}

// deliver broadcasts engine events to the table room and settles the
// ledger-affecting ones: cancellation refunds go back to their owners'
// balances, and finished tables leave the registry.
func (srv *Server) deliver(tableID string, events []game.Event) {
	for _, e := range events {
		if srv.io != nil {
			srv.io.BroadcastToRoom("/", tableID, "table:"+e.EventName(), e)
		}
		cancelled, ok := e.(game.SessionCancelled)
		if !ok {
			continue
		}
		for playerID, refund := range cancelled.Refunds {
			if !refund.IsPositive() {
				continue
			}
			if err := srv.ledger.Credit(context.Background(), playerID, refund); err != nil {
				log.Error().Err(err).Str("table", tableID).Str("player", playerID).Msg("refund failed")
			}
		}
		srv.rooms.Remove(tableID)
		log.Info().Str("table", tableID).Str("reason", string(cancelled.Reason)).Msg("session torn down")
	}
}

var actionKinds = map[string]game.ActionKind{
	"fold":   game.ActionFold,
	"check":  game.ActionCheck,
	"call":   game.ActionCall,
	"raise":  game.ActionRaise,
	"all-in": game.ActionAllIn,
}

// engineCodes maps engine sentinels to wire codes.
var engineCodes = []struct {
	err  error
	code string
}{
	{game.ErrGameInProgress, "game_in_progress"},
	{game.ErrRoundInProgress, "round_in_progress"},
	{game.ErrAlreadyJoined, "already_joined"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{game.ErrNotHost, "not_host"},
	{game.ErrNoActiveSession, "no_active_session"},
	{game.ErrNotParticipant, "not_participant"},
	{game.ErrOutOfTurn, "out_of_turn"},
	{game.ErrPointlessFold, "pointless_fold"},
	{game.ErrCannotCheck, "cannot_check"},
	{game.ErrMustGoAllIn, "must_go_all_in"},
	{game.ErrInsufficientFunds, "insufficient_funds"},
	{game.ErrInvalidRaiseAmount, "invalid_raise_amount"},
	{game.ErrInvalidRoundLimit, "invalid_rounds"},
}

func (srv *Server) engineFail(s socketio.Conn, err error) map[string]any {
	for _, m := range engineCodes {
		if errors.Is(err, m.err) {
			return srv.fail(s, m.code, err.Error())
		}
	}
	return srv.fail(s, "internal", err.Error())
}

func (srv *Server) ledgerFail(s socketio.Conn, err error) map[string]any {
	if errors.Is(err, ledger.ErrInsufficientBalance) {
		return srv.fail(s, "insufficient_balance", "not enough balance for the buy-in")
	}
	return srv.fail(s, "ledger_error", err.Error())
}

func (srv *Server) fail(s socketio.Conn, code, message string) map[string]any {
	payload := map[string]any{"code": code, "message": message}
	s.Emit("table:error", payload)
	return map[string]any{"error": payload}
}
