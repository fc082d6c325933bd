// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/api/utils"
	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/co"
	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/node"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	maxMessageSize = 512
)

var logger = log.WithContext("pkg", "subscriptions")

// Source is the chain a subscription follows.
type Source interface {
	Head() node.Block
	NewBlockWaiter() <-chan struct{}
}

type reader interface {
	Read() ([]any, error)
}

type Subscriptions struct {
	source         Source
	db             *eventdb.EventDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	closeOnce      sync.Once
	goes           co.Goes
}

func New(source Source, db *eventdb.EventDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		source:         source,
		db:             db,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePosition returns the first block to read, the pending block by default.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	next := s.source.Head().Number + 1
	arg := req.URL.Query().Get("pos")
	if arg == "" {
		return next, nil
	}
	pos, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > next {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if next-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func (s *Subscriptions) handleEventReader(req *http.Request) (reader, error) {
	pos, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	var filter eventdb.Filter
	query := req.URL.Query()
	if arg := query.Get("address"); arg != "" {
		addr, err := utils.ParseAddress("address", arg)
		if err != nil {
			return nil, err
		}
		filter.Address = &addr
	}
	if arg := query.Get("kind"); arg != "" {
		for _, name := range strings.Split(arg, ",") {
			kind, err := staking.ParseEventKind(strings.TrimSpace(name))
			if err != nil {
				return nil, utils.BadRequest(errors.WithMessage(err, "kind"))
			}
			filter.Kinds = append(filter.Kinds, kind)
		}
	}
	return newEventReader(s.db, s.source, filter, pos), nil
}

func (s *Subscriptions) handleBlockReader(_ *http.Request) (reader, error) {
	return &blockReader{source: s.source, last: s.source.Head().Number}, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	var (
		r   reader
		err error
	)
	switch mux.Vars(req)["subject"] {
	case "event":
		r, err = s.handleEventReader(req)
	case "block":
		r, err = s.handleBlockReader(req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	id := uuid.New()
	conn, err := s.upgrader.Upgrade(w, req, http.Header{"X-Subscription-Id": []string{id}})
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer conn.Close()

	logger.Debug("subscription opened", "id", id, "subject", mux.Vars(req)["subject"], "remote", req.RemoteAddr)
	closed := make(chan struct{})
	s.goes.Go(func() { readPump(conn, closed) })

	if err := s.pipe(conn, r, closed); err != nil {
		logger.Debug("subscription closed", "id", id, "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	} else {
		logger.Debug("subscription closed", "id", id)
	}
	return nil
}

func readPump(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, r reader, closed <-chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// take the waiter before reading so no block is missed
		waiter := s.source.NewBlockWaiter()
		msgs, err := r.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed")
			return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter:
		}
	}
}

// Close ends every open subscription.
func (s *Subscriptions) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.goes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
