// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package board is the client side of the hiring board: it turns server
snapshots into columns and moves candidates optimistically.

# Stage Resolution

Applications may carry stage references written by older clients.
Resolve maps any reference to a stage of the pipeline, trying in order
the exact id, the name ignoring case, a legacy "prefix_<n>" position,
a fuzzy word match and finally the first stage:

	stage := board.Resolve("interview_2", pipeline)

# Optimistic Moves

A Board shows a move as soon as it is requested. The Overlay pins the
candidate to the target column until the server answers. After success
the pin is kept for a grace window (800ms by default) or until the
realtime echo agrees, whichever comes first. After failure it is removed
and the Notifier gets the server's message.

	client := board.NewClient("http://localhost:3318", nil)
	b := board.New(jobID, board.NewGateway(client), board.Options{
		Source: client,
		Stream: client,
	})
	b.Subscribe(render)
	go b.Run(ctx)
	err := b.Move(ctx, candidateID, stageID)

Rejected candidates are refused locally by the Gateway and never reach
the network.

# Reconciliation

Reconcile is a pure function from a snapshot and the pending moves to a
Grouping keyed by stage id. Every stage has a key, even when empty.

# Drag and Drop

DetectMove compares the groupings before and after a drag. ResolveDrop
works from the dragged card and the column or card it was dropped on.
Reorders within a column are not persisted.
*/
package board
