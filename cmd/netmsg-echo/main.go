/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command netmsg-echo wires up the three walkthrough scenarios this module
// is built against: an id=1 echo handler, a structured no-handler reply for
// any unregistered id, and a periodic broadcast fanned out to every
// connected session.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	nmconnect "github.com/flowmesh/golib/netmsg/connect"
	nmcfg "github.com/flowmesh/golib/netmsg/config"
	"github.com/flowmesh/golib/netmsg/handler"
	nmlistener "github.com/flowmesh/golib/netmsg/listener"
	"github.com/flowmesh/golib/netmsg/message"
	nmmetrics "github.com/flowmesh/golib/netmsg/metrics"
	nmserver "github.com/flowmesh/golib/netmsg/server"
	"github.com/flowmesh/golib/netmsg/session"
	"github.com/flowmesh/golib/netmsg/stream"
	"github.com/flowmesh/golib/netmsg/wire"

	"github.com/flowmesh/golib/logger"
	"github.com/flowmesh/golib/logger/level"

	prmsdk "github.com/prometheus/client_golang/prometheus"
)

const (
	idEcho         int32 = 1
	idEchoReply    int32 = 2
	idUnknownReply int32 = 3
)

var sessionSeq atomic.Int64

func echoFactory(_ handler.Server, sess handler.Session, _ string) handler.Handler {
	s, ok := sess.(*session.Session)
	if !ok {
		return nil
	}
	return echoHandler{sess: s}
}

type echoHandler struct {
	sess *session.Session
}

func (h echoHandler) Process(_ context.Context, msg *message.Message) error {
	reply := message.New(idEchoReply, msg.Payload.Len())
	msg.CopyPayloadInto(reply)
	reply.RecycleForSend(idEchoReply)
	h.sess.PostOutput(reply, false)
	return nil
}

// noHandlerReply builds the structured "unknown id" reply of the Unknown-id
// scenario: the integer -1 followed by a string naming the offending id.
func noHandlerReply(_ session.ServerHook, _ *session.Session, msgID int32) *message.Message {
	reply := message.New(idUnknownReply, 16)
	_ = reply.Payload.WriteInt32(-1)
	_ = reply.Payload.WriteString(fmt.Sprintf("unknown message id %d", msgID))
	reply.Payload.Seek(0)
	return reply
}

func main() {
	root := &cobra.Command{
		Use:   "netmsg-echo",
		Short: "Run the netmsg echo/broadcast reference server",
		RunE:  run,
	}
	root.Flags().Int("port", 7000, "TCP port to listen on")
	root.Flags().Duration("broadcast-interval", 10*time.Second, "interval between heartbeat broadcasts, 0 disables it")

	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to an echo server and send one frame",
		RunE:  runConnect,
	}
	connectCmd.Flags().String("host", "localhost", "hostname or IP literal; may resolve to several addresses")
	connectCmd.Flags().Int("port", 7000, "TCP port")
	connectCmd.Flags().String("strategy", "sequential", "single|sequential|parallel, see spec.md §4.5")
	connectCmd.Flags().Int64("parallelism", 0, "worker count for the parallel strategy, 0 uses the process default")
	connectCmd.Flags().Duration("deadline", 5*time.Second, "overall connect budget for sequential/parallel")
	root.AddCommand(connectCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port, _ := cmd.Flags().GetInt("port")
	broadcastEvery, _ := cmd.Flags().GetDuration("broadcast-interval")

	v := viper.New()
	v.Set("listener.port", port)
	cfg, err := nmcfg.Load(v)
	if err != nil {
		return err
	}

	log := logger.New(ctx)

	reg := prmsdk.NewRegistry()
	met, err := nmmetrics.New(reg)
	if err != nil {
		return err
	}

	pool := message.NewPool(256)
	registry := handler.New()
	registry.Register(idEcho, echoFactory, nil)
	registry.Seal()

	srv := nmserver.New(pool, log)
	sessCfg := cfg.Session()

	factory := func(ctx context.Context, conn net.Conn) error {
		name := "sess-" + strconv.FormatInt(sessionSeq.Add(1), 10)
		strm := stream.New(conn, 0, 0)

		s := session.New(name, "echo-client", conn.RemoteAddr().String(), strm, sessCfg,
			srv, registry, noHandlerReply, pool, log)

		srv.AddSession(s)
		met.ObserveSession("echo-client", 1)
		s.SetOnline(true)
		s.StartWorkers(ctx)

		log.Entry(level.InfoLevel, "session accepted").FieldAdd("session", name).Log()
		return nil
	}

	ln := nmlistener.New(cfg.Listener.Listener(), factory, func(reason error) {
		log.Entry(level.ErrorLevel, "listener stopped accepting").ErrorAdd(true, reason).Log()
	}, log)

	if err := ln.Start(ctx); err != nil {
		return err
	}

	if broadcastEvery > 0 {
		go runHeartbeat(ctx, srv, pool, met, broadcastEvery)
	}

	<-ctx.Done()
	return ln.Stop(context.Background())
}

// runHeartbeat implements the Broadcast-fan-out scenario: every tick, one
// message is posted to every connected session.
func runHeartbeat(ctx context.Context, srv *nmserver.Server, pool *message.Pool, met *nmmetrics.Collectors, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	var seq int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			seq++
			msg := pool.Get()
			msg.SetID(idEchoReply)
			_ = msg.Payload.WriteString(fmt.Sprintf("heartbeat %d", seq))
			msg.Payload.Seek(0)

			srv.Broadcast("echo-client", msg, nil)
			met.ObserveBroadcast("echo-client")
		}
	}
}

// runConnect exercises the client-side multi-address connect strategies of
// spec.md §4.5 against --host/--port, then sends one id=1 echo frame and
// prints the reply.
func runConnect(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	strategyFlag, _ := cmd.Flags().GetString("strategy")
	parallelism, _ := cmd.Flags().GetInt64("parallelism")
	deadline, _ := cmd.Flags().GetDuration("deadline")

	log := logger.New(ctx)
	opts := nmconnect.Options{Deadline: deadline, Parallelism: parallelism, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

	var strategy nmconnect.Strategy
	switch strategyFlag {
	case "single":
		strategy = nmconnect.Single{Options: opts}
	case "parallel":
		strategy = nmconnect.Parallel{Options: opts, Log: log}
	default:
		strategy = nmconnect.Sequential{Options: opts}
	}

	strm, err := strategy.Connect(ctx, host, port)
	if err != nil {
		return err
	}
	defer strm.Close()

	codec := wire.DefaultCodec{}
	if err := codec.WriteFrame(strm, idEcho, []byte("hello\x00\x00\x00")); err != nil {
		return err
	}

	id, payload, err := codec.ReadFrame(strm)
	if err != nil {
		return err
	}

	log.Entry(level.InfoLevel, "reply received").FieldAdd("id", id).FieldAdd("payload", string(payload)).Log()
	return nil
}
