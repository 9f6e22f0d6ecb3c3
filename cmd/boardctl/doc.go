// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Boardctl is a terminal client for the pipeline board API.

# Usage

	boardctl watch <job>
	boardctl move <job> <candidate> <stage>
	boardctl resolve <job> <ref>
	boardctl history <job> <candidate>

The server defaults to http://localhost:3318 and can be changed with
--server or BOARD_SERVER. Stages may be named by id, by name in any case,
or by a legacy reference such as "interview_2".
*/
package main
