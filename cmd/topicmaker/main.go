package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/adapter"
	"github.com/niksmo/shop-admin/pkg/sigctx"
	"github.com/spf13/pflag"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const cleanupPolicy = "delete"

func main() {
	partitions := pflag.Int32("partitions", 3, "topic partitions")
	replicationFactor := pflag.Int16("replication-factor", 3, "topic replication factor")
	retention := pflag.Duration("retention", 7*24*time.Hour, "topic retention")
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.Parse()

	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	if !cfg.Broker.Enabled() {
		printFail(errors.New("broker.seed_brokers is empty"))
		return
	}

	cl, err := createClient(cfg)
	if err != nil {
		printFail(err)
		return
	}
	defer cl.Close()

	topic := cfg.Broker.Topics.AdminEvents
	printStart(topic)
	defer printComplete(time.Now())

	err = makeTopic(
		sigCtx, cl, topic, *partitions, *replicationFactor, *retention,
	)
	if err != nil {
		printFail(err)
	}
}

func createClient(cfg config.Config) (*kadm.Client, error) {
	tlsFiles := cfg.Broker.TLS
	tlsCfg, err := adapter.MakeTLSConfig(tlsFiles.CA, tlsFiles.Cert, tlsFiles.Key)
	if err != nil {
		return nil, err
	}

	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	return kadm.NewOptClient(opts...)
}

func makeTopic(
	ctx context.Context,
	cl *kadm.Client,
	topic string,
	partitions int32,
	replicationFactor int16,
	retention time.Duration,
) error {
	var (
		policy      = cleanupPolicy
		minISR      = "1"
		retentionMs = fmt.Sprint(retention.Milliseconds())
	)

	config := map[string]*string{
		"cleanup.policy":      &policy,
		"min.insync.replicas": &minISR,
		"retention.ms":        &retentionMs,
	}

	responses, err := cl.CreateTopics(
		ctx, partitions, replicationFactor, config, topic,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, res.Err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(topic string) {
	fmt.Printf("initializing topics...\n\t- %q\n\n", topic)
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}
