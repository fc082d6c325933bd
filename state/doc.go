// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages accounts and contract storage on top of a kv store.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	         |
//	     [ lru cache ]
//	         |
//	    [ kv store ]
//
// Every mutation lands in the stacked map first, so NewCheckpoint/RevertTo
// give all-or-nothing semantics to a sequence of writes.
package state
