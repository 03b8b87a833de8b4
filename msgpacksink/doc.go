// Package msgpacksink renders canonical events as MessagePack using
// vmihailenco/msgpack.
//
// Containers are written with definite lengths in canonical member order.
// Integer literals use the smallest MessagePack integer form; other number
// literals become float64. Values with no MessagePack equivalent (integers
// beyond 64 bits, raw JSON from json.Marshaler types) are carried as their
// JSON text in a string.
package msgpacksink
