package apiserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/router"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type reqData struct {
	req   *JRPCRequest
	resCh chan *JRPCResponse
}

func (s *APIServer) routes() {
	s.e.GET("/markets", func(c echo.Context) error {
		list, err := s.markets()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, list)
	})
	s.e.GET("/quotes", func(c echo.Context) error {
		am, in, out, err := s.quoteParams(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		list, err := s.quotes(am, in, out)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, list)
	})
	s.e.GET("/quote/best", func(c echo.Context) error {
		am, in, out, err := s.quoteParams(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		q, err := s.bestQuote(am, in, out)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if q == nil {
			return echo.NewHTTPError(http.StatusNotFound, "no market quotes the pair")
		}
		return c.JSON(http.StatusOK, q)
	})
	s.e.GET("/ws/events", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
		if err != nil {
			return err
		}
		s.hub.serve(conn)
		return nil
	})
	s.e.POST("/api/endpoints/http", func(c echo.Context) error {
		defer c.Request().Body.Close()
		dec := json.NewDecoder(c.Request().Body)
		dec.UseNumber()

		var req JRPCRequest
		if err := dec.Decode(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		res, err := s.dispatch(&req)
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		if res == nil {
			return c.NoContent(http.StatusOK)
		}
		return c.JSON(http.StatusOK, res)
	})
	s.e.GET("/api/endpoints/websocket", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
		if err != nil {
			return err
		}
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return nil
			}
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()

			var req JRPCRequest
			if err := dec.Decode(&req); err != nil {
				return nil
			}
			res, err := s.dispatch(&req)
			if err != nil {
				return nil
			}
			if res != nil {
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return nil
				}
				if err := conn.WriteJSON(res); err != nil {
					return nil
				}
			}
		}
	})
}

func (s *APIServer) dispatch(req *JRPCRequest) (*JRPCResponse, error) {
	resCh := make(chan *JRPCResponse, 1)
	select {
	case s.reqCh <- &reqData{req: req, resCh: resCh}:
	case <-s.done:
		return nil, ErrServerClosed
	}
	return <-resCh, nil
}

// JRPC provides the json rpc feature as a SubName.FunctionName methods
func (s *APIServer) JRPC(SubName string) (*JRPCSub, error) {
	s.Lock()
	defer s.Unlock()

	if _, has := s.subMap[SubName]; has {
		return nil, ErrExistSubName
	}
	js := NewJRPCSub()
	s.subMap[SubName] = js
	return js, nil
}

func (s *APIServer) handleJRPC(req *JRPCRequest) *JRPCResponse {
	ls := strings.SplitN(req.Method, ".", 2)
	if len(ls) != 2 {
		return &JRPCResponse{
			JSONRPC: req.JSONRPC,
			ID:      req.ID,
			Error:   ErrInvalidMethod.Error(),
		}
	}

	s.Lock()
	sub, has := s.subMap[ls[0]]
	s.Unlock()
	if !has {
		return &JRPCResponse{
			JSONRPC: req.JSONRPC,
			ID:      req.ID,
			Error:   ErrInvalidMethod.Error(),
		}
	}

	fn, has := sub.get(ls[1])
	if !has {
		if req.ID == nil {
			return nil
		}
		return &JRPCResponse{
			JSONRPC: req.JSONRPC,
			ID:      req.ID,
			Error:   ErrInvalidMethod.Error(),
		}
	}

	ret, err := fn(req.ID, NewArgument(req.Params))
	if req.ID == nil {
		return nil
	}
	res := &JRPCResponse{
		JSONRPC: req.JSONRPC,
		ID:      req.ID,
	}
	if err != nil {
		s.log.Debug("jrpc failed", zap.String("method", req.Method), zap.Error(err))
		res.Error = err.Error()
	} else {
		res.Result = ret
	}
	return res
}

func (s *APIServer) registerHoops() {
	js, err := s.JRPC("hoops")
	if err != nil {
		panic(err)
	}
	js.Set("markets", func(ID interface{}, arg *Argument) (interface{}, error) {
		return s.markets()
	})
	js.Set("quotes", func(ID interface{}, arg *Argument) (interface{}, error) {
		am, in, out, err := s.quoteArgs(arg)
		if err != nil {
			return nil, err
		}
		return s.quotes(am, in, out)
	})
	js.Set("quote", func(ID interface{}, arg *Argument) (interface{}, error) {
		am, in, out, err := s.quoteArgs(arg)
		if err != nil {
			return nil, err
		}
		return s.bestQuote(am, in, out)
	})
	js.Set("discover", func(ID interface{}, arg *Argument) (interface{}, error) {
		count, err := s.net.Discover()
		if err != nil {
			return nil, err
		}
		s.cache.Purge()
		return count, nil
	})
	js.Set("ledger", func(ID interface{}, arg *Argument) (interface{}, error) {
		return s.net.Ledger(), nil
	})
	js.Set("tokens", func(ID interface{}, arg *Argument) (interface{}, error) {
		m := map[string]string{}
		for _, sym := range s.net.Symbols() {
			addr, err := s.net.Token(sym)
			if err != nil {
				return nil, err
			}
			m[sym] = addr.String()
		}
		return m, nil
	})
}

// MarketView is a market with the token symbols resolved
type MarketView struct {
	*router.MarketData
	Protocol string `json:"protocol"`
	SymbolA  string `json:"symbol_a"`
	SymbolB  string `json:"symbol_b"`
}

func (s *APIServer) markets() ([]*MarketView, error) {
	list, err := s.net.Markets()
	if err != nil {
		return nil, err
	}
	views := make([]*MarketView, 0, len(list))
	for _, m := range list {
		views = append(views, &MarketView{
			MarketData: m,
			Protocol:   protocolName(m.AdapterID),
			SymbolA:    s.net.SymbolOf(m.TokenA),
			SymbolB:    s.net.SymbolOf(m.TokenB),
		})
	}
	return views, nil
}

func protocolName(id uint32) string {
	if p, has := adapter.ProtocolByID(id); has {
		return p.Name
	}
	return fmt.Sprintf("adapter(%d)", id)
}

func cacheKey(kind string, am *amount.Amount, in, out common.Address) string {
	return fmt.Sprintf("%v:%v:%v:%v", kind, am.String(), in.String(), out.String())
}

func (s *APIServer) quotes(am *amount.Amount, in, out common.Address) ([]*router.SwapQuote, error) {
	key := cacheKey("all", am, in, out)
	if v, err := s.cache.Get(key); err == nil {
		return v.([]*router.SwapQuote), nil
	}
	list, err := s.net.Quotes(am, in, out)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*router.SwapQuote{}
	}
	s.cache.Set(key, list)
	return list, nil
}

func (s *APIServer) bestQuote(am *amount.Amount, in, out common.Address) (*router.SwapQuote, error) {
	list, err := s.quotes(am, in, out)
	if err != nil {
		return nil, err
	}
	return router.BestQuote(list), nil
}

func (s *APIServer) token(v string) (common.Address, error) {
	if v == "" {
		return common.Address{}, errors.Wrap(ErrUnknownToken, "empty")
	}
	addr, err := s.net.Token(v)
	if err != nil {
		return common.Address{}, errors.Wrap(ErrUnknownToken, v)
	}
	return addr, nil
}

func (s *APIServer) quoteParams(c echo.Context) (*amount.Amount, common.Address, common.Address, error) {
	return s.parseQuote(c.QueryParam("amount"), c.QueryParam("in"), c.QueryParam("out"))
}

func (s *APIServer) quoteArgs(arg *Argument) (*amount.Amount, common.Address, common.Address, error) {
	vs := make([]string, 3)
	for i := range vs {
		v, err := arg.String(i)
		if err != nil {
			return nil, common.Address{}, common.Address{}, err
		}
		vs[i] = v
	}
	return s.parseQuote(vs[0], vs[1], vs[2])
}

func (s *APIServer) parseQuote(am, in, out string) (*amount.Amount, common.Address, common.Address, error) {
	zero := common.Address{}
	v, err := amount.ParseAmount(am)
	if err != nil {
		return nil, zero, zero, errors.Wrapf(ErrInvalidArgument, "amount %q", am)
	}
	tin, err := s.token(in)
	if err != nil {
		return nil, zero, zero, err
	}
	tout, err := s.token(out)
	if err != nil {
		return nil, zero, zero, err
	}
	return v, tin, tout, nil
}
