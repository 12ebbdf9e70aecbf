package apiserver

import (
	"context"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"go.uber.org/zap"

	"github.com/hoops-finance/hoops/common/rlog"
	"github.com/hoops-finance/hoops/contract/network"
	"github.com/hoops-finance/hoops/core/types"
)

// Options tunes the quote cache of the server
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Workers   int
}

// APIServer provides rest, json rpc and event streaming over a sandbox network
type APIServer struct {
	sync.Mutex
	e      *echo.Echo
	net    *network.Network
	subMap map[string]*JRPCSub
	cache  gcache.Cache
	hub    *hub
	reqCh  chan *reqData
	done   chan struct{}
	once   sync.Once
	log    *zap.Logger
}

// NewAPIServer returns a APIServer serving the network
func NewAPIServer(net *network.Network, opts Options) *APIServer {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 512
	}
	if opts.Workers <= 0 {
		opts.Workers = 50
	}
	cb := gcache.New(opts.CacheSize).LRU()
	if opts.CacheTTL > 0 {
		cb = cb.Expiration(opts.CacheTTL)
	}
	s := &APIServer{
		e:      echo.New(),
		net:    net,
		subMap: map[string]*JRPCSub{},
		cache:  cb.Build(),
		reqCh:  make(chan *reqData),
		done:   make(chan struct{}),
		log:    rlog.Named("apiserver"),
	}
	s.hub = newHub(s.log)
	s.e.HideBanner = true
	s.e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	s.routes()
	s.registerHoops()

	for i := 0; i < opts.Workers; i++ {
		go func() {
			for {
				select {
				case r := <-s.reqCh:
					r.resCh <- s.handleJRPC(r.req)
				case <-s.done:
					return
				}
			}
		}()
	}
	net.OnReceipt(s.onReceipt)
	return s
}

// Name returns the name of the service
func (s *APIServer) Name() string {
	return "hoops.apiserver"
}

// Handler returns the http handler of the server
func (s *APIServer) Handler() *echo.Echo {
	return s.e
}

// Run starts web service of the apiserver
func (s *APIServer) Run(BindAddress string) error {
	s.log.Info("listen", zap.String("bind", BindAddress))
	return s.e.Start(BindAddress)
}

// Shutdown stops the listener and drops the event subscribers
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		close(s.done)
	})
	s.hub.closeAll()
	return s.e.Shutdown(ctx)
}

// onReceipt runs under the network lock so it never calls back into the network
func (s *APIServer) onReceipt(rt *types.Receipt) {
	s.cache.Purge()
	if len(rt.Events) == 0 {
		return
	}
	s.hub.publish(&EventMessage{
		TxHash: rt.TxHash.String(),
		Ledger: rt.Ledger.Sequence,
		Events: rt.Events,
	})
}

// Close shuts the server down within five seconds
func (s *APIServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.log.Warn("shutdown", zap.Error(err))
	}
}
