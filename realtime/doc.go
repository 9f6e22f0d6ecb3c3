// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime carries "this job's board changed" notices from the
handlers that mutate state to the stream handlers that push snapshots.

Notices are hints, not data: a stream that receives one reloads the full
snapshot from the store. Brokers may therefore drop notices for slow
subscribers without losing state.

# Brokers

MemoryBroker serves a single server process. RedisBroker publishes on
the board:<jobID> channel so several instances behind a load balancer
see each other's changes:

	broker, err := realtime.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer broker.Close()

	sub, err := broker.Subscribe(ctx, jobID)
	defer sub.Close()
	for notice := range sub.C {
		...
	}
*/
package realtime
