// Package gameserver assembles and runs one survival session. World owns
// the entities and per-tick systems, Clock keeps simulated time, Ticker
// drives the loop at a fixed rate and Game wires the player, the wave
// spawner and the path planner together. ProviderSet builds a Game with
// wire.
package gameserver
