// Package save persists generated beans.
//
// The builder never stores anything itself; it hands finished beans to a
// Saver. Unsupported rejects every call and is the default, Nop accepts and
// ignores, Func adapts plain functions and SQL writes Entity beans to a
// database table through sqlx.
package save
