// Package realtime implements the live core of the chat server: connection
// lifecycle, presence, room broadcast groups, the message event pipeline
// and typing indicators.
//
// Live room subscriptions are deliberately independent from persisted room
// membership. A socket joinRoom subscribes a connection to a room's
// broadcast feed without touching Room.MemberIDs; the REST join endpoint
// mutates persisted membership and rejects duplicates, and never affects
// live subscriptions. The two operations look similar but answer different
// questions ("who hears this room right now" vs "who belongs to this
// room") and must not be collapsed into one.
package realtime
