package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bluele/gcache"
	"github.com/gorilla/websocket"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/amount"
	"github.com/hoops-finance/hoops/contract/adapter"
	"github.com/hoops-finance/hoops/contract/network"
	"github.com/hoops-finance/hoops/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPIServer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "APIServer Suite")
}

var (
	admin = common.HexToAddress("0xb000000000000000000000000000000000000001")
	user  = common.HexToAddress("0xb000000000000000000000000000000000000002")
)

func sandbox() *network.Spec {
	return &network.Spec{
		Timestamp: 1700000000,
		Sequence:  10,
		Admin:     admin,
		Holders:   []common.Address{user},
		Usdc:      "USDC",
		Tokens: []*network.TokenSpec{
			{Symbol: "XLM", Supply: 1000000},
			{Symbol: "USDC", Supply: 1000000},
		},
		Pools: []*network.PoolSpec{
			{Kind: network.KindSoroswap, TokenA: "XLM", TokenB: "USDC", ReserveA: 10000, ReserveB: 1000},
			{Kind: network.KindComet, TokenA: "XLM", TokenB: "USDC", ReserveA: 8000, ReserveB: 800},
		},
	}
}

func get(s *APIServer, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func rpc(s *APIServer, method string, params ...interface{}) *JRPCResponse {
	body, err := json.Marshal(&JRPCRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	Expect(err).To(Succeed())
	req := httptest.NewRequest(http.MethodPost, "/api/endpoints/http", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	Expect(rec.Code).To(Equal(http.StatusOK))

	res := &JRPCResponse{}
	Expect(json.Unmarshal(rec.Body.Bytes(), res)).To(Succeed())
	return res
}

var _ = Describe("APIServer", func() {
	var (
		n *network.Network
		s *APIServer
	)

	BeforeEach(func() {
		var err error
		n, err = network.Build(sandbox())
		Expect(err).To(Succeed())
		s = NewAPIServer(n, Options{CacheSize: 16, CacheTTL: time.Minute, Workers: 2})
	})

	AfterEach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})

	It("lists the markets with symbols", func() {
		rec := get(s, "/markets")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var list []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(2))
		protocols := []interface{}{}
		for _, m := range list {
			protocols = append(protocols, m["protocol"])
			Expect([]interface{}{m["symbol_a"], m["symbol_b"]}).To(ConsistOf("XLM", "USDC"))
		}
		Expect(protocols).To(ConsistOf("soroswap", "comet"))
	})

	It("names the protocol by adapter and not by curve", func() {
		spec := sandbox()
		spec.Pools = append(spec.Pools, &network.PoolSpec{Kind: network.KindAquaStable, TokenA: "XLM", TokenB: "USDC", ReserveA: 5000, ReserveB: 5000})
		sn, err := network.Build(spec)
		Expect(err).To(Succeed())
		ss := NewAPIServer(sn, Options{Workers: 1})
		defer ss.Close()

		list, err := ss.markets()
		Expect(err).To(Succeed())
		Expect(list).To(HaveLen(3))
		for _, m := range list {
			switch m.AdapterID {
			case adapter.ProtocolComet:
				Expect(m.Protocol).To(Equal("comet"))
				Expect(m.PoolType).To(Equal(uint32(2)))
			case adapter.ProtocolAqua:
				Expect(m.Protocol).To(Equal("aqua"))
				Expect(m.PoolType).To(Equal(uint32(1)))
			default:
				Expect(m.Protocol).To(Equal("soroswap"))
			}
		}
	})

	It("serves quotes from the cache until a receipt lands", func() {
		rec := get(s, "/quotes?amount=10&in=XLM&out=usdc")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list []map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(2))

		xlm, _ := n.Token("XLM")
		usdc, _ := n.Token("USDC")
		key := cacheKey("all", amount.NewCoinAmount(10, 0), xlm, usdc)
		_, err := s.cache.Get(key)
		Expect(err).To(Succeed())

		_, err = n.Execute(types.NewTransaction(user, xlm, "Transfer", user, admin, amount.NewCoinAmount(1, 0)))
		Expect(err).To(Succeed())
		_, err = s.cache.Get(key)
		Expect(err).To(MatchError(gcache.KeyNotFoundError))
	})

	It("returns the best quote", func() {
		rec := get(s, "/quote/best?amount=10&in=XLM&out=USDC")
		Expect(rec.Code).To(Equal(http.StatusOK))

		xlm, _ := n.Token("XLM")
		usdc, _ := n.Token("USDC")
		best, err := n.BestQuote(amount.NewCoinAmount(10, 0), xlm, usdc)
		Expect(err).To(Succeed())

		var got map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
		Expect(got["amount_out"]).To(Equal(best.AmountOut.String()))
		Expect(strings.EqualFold(got["pool_address"].(string), best.PoolAddress.String())).To(BeTrue())
	})

	It("rejects bad quote parameters", func() {
		Expect(get(s, "/quotes?amount=ten&in=XLM&out=USDC").Code).To(Equal(http.StatusBadRequest))
		Expect(get(s, "/quotes?amount=10&in=DOGE&out=USDC").Code).To(Equal(http.StatusBadRequest))
		Expect(get(s, "/quote/best?amount=10&in=XLM").Code).To(Equal(http.StatusBadRequest))
	})

	It("answers json rpc", func() {
		res := rpc(s, "hoops.markets")
		Expect(res.Error).To(BeEmpty())
		Expect(res.Result).To(HaveLen(2))

		res = rpc(s, "hoops.quote", "10", "XLM", "USDC")
		Expect(res.Error).To(BeEmpty())
		Expect(res.Result).To(HaveKey("amount_out"))

		res = rpc(s, "hoops.quote", "10", "XLM")
		Expect(res.Error).NotTo(BeEmpty())

		res = rpc(s, "hoops.tokens")
		Expect(res.Result).To(HaveKey("XLM"))

		res = rpc(s, "hoops.unknown")
		Expect(res.Error).To(Equal(ErrInvalidMethod.Error()))
		res = rpc(s, "markets")
		Expect(res.Error).To(Equal(ErrInvalidMethod.Error()))
	})

	It("streams receipt events over websocket", func() {
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).To(Succeed())
		defer conn.Close()
		Eventually(s.hub.count).Should(Equal(1))

		xlm, _ := n.Token("XLM")
		_, err = n.Execute(types.NewTransaction(user, xlm, "Transfer", user, admin, amount.NewCoinAmount(3, 0)))
		Expect(err).To(Succeed())

		Expect(conn.SetReadDeadline(time.Now().Add(5 * time.Second))).To(Succeed())
		msg := &EventMessage{}
		Expect(conn.ReadJSON(msg)).To(Succeed())
		Expect(msg.Events).NotTo(BeEmpty())
		Expect(msg.Events[0].Contract).To(Equal(xlm))
		Expect(msg.Events[0].HasTopic(0, "transfer")).To(BeTrue())
	})
})

var _ = Describe("Argument", func() {
	It("parses numbers and amounts", func() {
		arg := NewArgument([]interface{}{json.Number("7"), "1.5", nil, []interface{}{"a", "b"}})
		Expect(arg.Len()).To(Equal(4))

		v, err := arg.Uint32(0)
		Expect(err).To(Succeed())
		Expect(v).To(Equal(uint32(7)))

		am, err := arg.Amount(1)
		Expect(err).To(Succeed())
		Expect(am.String()).To(Equal("1.5"))

		_, err = arg.String(2)
		Expect(err).To(MatchError(ErrInvalidArgumentType))
		_, err = arg.Int(9)
		Expect(err).To(MatchError(ErrInvalidArgumentIndex))

		list, err := arg.Array(3)
		Expect(err).To(Succeed())
		Expect(list).To(HaveLen(2))
		_, err = arg.Array(1)
		Expect(err).To(MatchError(ErrInvalidArgumentType))
	})
})
