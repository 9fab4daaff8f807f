package amm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// FEE_DENOMINATOR is the pips scale: a fee of 10 means 0.10%.
const FEE_DENOMINATOR uint64 = 10000

var (
	ErrInsufficientInputAmount = errors.New("INSUFFICIENT_INPUT_AMOUNT: amount in must be positive")
	ErrInsufficientLiquidity   = errors.New("INSUFFICIENT_LIQUIDITY: reserves must be positive")
	ErrInvalidFee              = errors.New("INVALID_FEE: fee must be below 10000 pips")
)

func checkInputs(amountIn, reserveIn, reserveOut uint64) error {
	if amountIn == 0 {
		return ErrInsufficientInputAmount
	}
	if reserveIn == 0 || reserveOut == 0 {
		return fmt.Errorf("%w: reserve in %d, reserve out %d", ErrInsufficientLiquidity, reserveIn, reserveOut)
	}
	return nil
}

// Quote is the fee-less constant-product output:
// floor(amountIn * reserveOut / (reserveIn + amountIn)).
func Quote(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if err := checkInputs(amountIn, reserveIn, reserveOut); err != nil {
		return 0, err
	}

	num := new(uint256.Int).Mul(uint256.NewInt(amountIn), uint256.NewInt(reserveOut))
	den := new(uint256.Int).Add(uint256.NewInt(reserveIn), uint256.NewInt(amountIn))

	// amountIn/(reserveIn+amountIn) < 1 so the result is below reserveOut.
	return new(uint256.Int).Div(num, den).Uint64(), nil
}

// QuoteOut applies feePips to the constant-product output. A positive fee
// always adds one unit after the floor division.
func QuoteOut(amountIn, reserveIn, reserveOut, feePips uint64) (uint64, error) {
	if err := checkInputs(amountIn, reserveIn, reserveOut); err != nil {
		return 0, err
	}
	if feePips >= FEE_DENOMINATOR {
		return 0, fmt.Errorf("%w: %d", ErrInvalidFee, feePips)
	}

	raw, err := Quote(amountIn, reserveIn, reserveOut)
	if err != nil {
		return 0, err
	}
	return applyFee(raw, feePips), nil
}

// applyFee returns floor(raw * (10000 - feePips) / 10000), plus one when
// feePips is positive.
func applyFee(raw, feePips uint64) uint64 {
	scaled := new(uint256.Int).Mul(uint256.NewInt(raw), uint256.NewInt(FEE_DENOMINATOR-feePips))
	out := scaled.Div(scaled, uint256.NewInt(FEE_DENOMINATOR)).Uint64()
	if feePips > 0 {
		out++
	}
	return out
}
