package client

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/cheqd/wallet-core/tx"
	"github.com/cheqd/wallet-core/types"
	"github.com/cheqd/wallet-core/wallet"
)

// SignTx signs doc with every wallet, in order, and returns the raw
// transaction. The signers of doc are replaced by the wallets' accounts as
// they are on chain right now.
func (c *Client) SignTx(ctx context.Context, doc *tx.Document, wallets ...wallet.Wallet) ([]byte, error) {
	if err := c.prepareSigners(ctx, doc, wallets); err != nil {
		return nil, err
	}
	c.setState(TxBuilt)

	var canonical *tx.SignDoc
	signatures := make([][]byte, len(wallets))
	for i, w := range wallets {
		signDoc, sig, err := w.SignTransaction(ctx, doc)
		if err != nil {
			return nil, errors.Wrapf(err, "signer %d", i)
		}
		if canonical == nil {
			canonical = signDoc
		} else if !canonical.SameTransaction(signDoc) {
			return nil, errors.Wrapf(types.ErrSignDocMismatch, "signer %d signed a different transaction", i)
		}
		signatures[i] = sig
	}

	txBytes, err := tx.AssembleTxRaw(canonical, signatures)
	if err != nil {
		return nil, err
	}
	c.setState(TxSigned)
	return txBytes, nil
}

// SignAndBroadcastTx signs doc with the wallets, broadcasts it and waits for
// the block that includes it.
func (c *Client) SignAndBroadcastTx(ctx context.Context, doc *tx.Document, wallets ...wallet.Wallet) (*BroadcastResult, error) {
	return c.signAndBroadcast(ctx, doc, wallets, c.BroadcastTx, TxCommitted)
}

// SignAndBroadcastTxSync signs doc with the wallets and hands it to the
// TxBroadcaster. On success the transaction stays in TxSubmitted.
func (c *Client) SignAndBroadcastTxSync(ctx context.Context, doc *tx.Document, wallets ...wallet.Wallet) (*BroadcastResult, error) {
	if c.broadcaster == nil {
		return nil, errors.Wrap(types.ErrNotSupported, "no tx broadcaster configured")
	}
	return c.signAndBroadcast(ctx, doc, wallets, c.BroadcastTxSync, TxSubmitted)
}

func (c *Client) signAndBroadcast(ctx context.Context, doc *tx.Document, wallets []wallet.Wallet,
	broadcast func(context.Context, []byte) (*BroadcastResult, error), done TxState) (*BroadcastResult, error) {
	txBytes, err := c.SignTx(ctx, doc, wallets...)
	if err != nil {
		return nil, err
	}
	c.setState(TxSubmitted)
	result, err := broadcast(ctx, txBytes)
	switch {
	case errors.Is(err, types.ErrChainRejection):
		c.setState(TxRejected)
	case err != nil:
		c.setState(TxBroadcastFailed)
	case done != TxSubmitted:
		c.setState(done)
	}
	return result, err
}

// EstimateGas simulates doc signed by the wallets and returns the gas used
// scaled by adjustment.
func (c *Client) EstimateGas(ctx context.Context, doc *tx.Document, adjustment float64, wallets ...wallet.Wallet) (uint64, error) {
	if c.simulator == nil {
		return 0, errors.Wrap(types.ErrNotSupported, "no simulator configured")
	}
	if err := c.prepareSigners(ctx, doc, wallets); err != nil {
		return 0, err
	}
	txBytes, err := tx.BuildSimulationTx(doc)
	if err != nil {
		return 0, err
	}
	gasInfo, err := c.simulator.Simulate(ctx, txBytes)
	if err != nil {
		return 0, errors.Wrap(err, "simulation failed")
	}
	if adjustment <= 0 {
		adjustment = 1
	}
	return uint64(math.Ceil(float64(gasInfo.GetGasUsed()) * adjustment)), nil
}

// prepareSigners fills the chain id and resolves every wallet's account.
// All signer infos are part of what each signer signs, so this happens
// before anyone signs.
func (c *Client) prepareSigners(ctx context.Context, doc *tx.Document, wallets []wallet.Wallet) error {
	if len(wallets) == 0 {
		return types.ErrNoWallets
	}
	if doc == nil {
		return errors.Wrap(types.ErrInvalidDocument, "nil document")
	}
	if doc.ChainID == "" {
		chainID, err := c.ChainID(ctx)
		if err != nil {
			return err
		}
		doc.ChainID = chainID
	}

	signers := make([]tx.DocSigner, len(wallets))
	for i, w := range wallets {
		address, err := w.Address()
		if err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		pubKey, err := w.PublicKey()
		if err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		account, err := c.GetAccount(ctx, address)
		if err != nil {
			return err
		}
		signers[i] = tx.DocSigner{
			AccountNumber: account.GetAccountNumber(),
			Sequence:      account.GetSequence(),
			PublicKey:     pubKey,
			Mode:          w.SigningMode(),
		}
	}
	doc.Signers = signers
	return nil
}
