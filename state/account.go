// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/kv"
)

// Account is the persisted representation of an account.
type Account struct {
	Balance *big.Int
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

// loadAccount load an account object by address in store.
// If the given address is not found, an empty account will be returned.
func loadAccount(getter kv.Getter, addr evr.Address) (*Account, error) {
	data, err := getter.Get(addr[:])
	if err != nil {
		if getter.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account into store.
// If the given account is empty, the value for given address is deleted.
func saveAccount(putter kv.Putter, addr evr.Address, a *Account) error {
	if a.IsEmpty() {
		return putter.Delete(addr[:])
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(addr[:], data)
}

func storageDBKey(addr evr.Address, key evr.Bytes32) []byte {
	k := make([]byte, 0, evr.AddressLength+32)
	return append(append(k, addr[:]...), key[:]...)
}

// loadStorage load storage data for given key.
func loadStorage(getter kv.Getter, addr evr.Address, key evr.Bytes32) (rlp.RawValue, error) {
	v, err := getter.Get(storageDBKey(addr, key))
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// saveStorage save value for given key.
// If the data is zero, the given key will be deleted.
func saveStorage(putter kv.Putter, addr evr.Address, key evr.Bytes32, data rlp.RawValue) error {
	if len(data) == 0 {
		return putter.Delete(storageDBKey(addr, key))
	}
	return putter.Put(storageDBKey(addr, key), data)
}
