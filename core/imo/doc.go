// Package imo provides the internal model of a music document: a typed
// single-owner tree of nodes plus the relations that link staff objects
// across the tree.
//
// # Tree and Kinds
//
// Every node implements Obj and carries a Kind from a closed enumeration.
// Kinds are grouped in categories that the capability predicates test:
//
//   - simple objects: data holders and collections (Options, MusicData...)
//   - containers: Document and Instrument
//   - box objects: Score, TextBlock, Paragraph, Heading
//   - staff objects: Note, Rest, Clef, Barline...
//   - auxiliary objects: Fermata, ScoreText... and the relations
//
// A node exclusively owns its children. Delete tears a subtree down.
//
// # Attachments and Relations
//
// Content objects carry a lazily created Attachments child, ordered by
// rendering priority. Relations (Tie, Slur, Beam, Tuplet, Chord) are
// auxiliary objects attached to every participant; per-participant data
// lives in the participant's Reldataobjs child. Membership is changed only
// through StaffObj.IncludeInRelation and StaffObj.RemoveFromRelation, which
// dissolve a relation that drops below its minimum size and delete it once
// no participant is left.
//
// Tree mutation is not safe for concurrent use.
package imo
