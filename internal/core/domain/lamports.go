package domain

import "fmt"

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// Lamports is a balance in the chain's smallest indivisible unit.
type Lamports uint64

// SOL converts the raw balance to display units.
func (l Lamports) SOL() float64 {
	return float64(l) / float64(LamportsPerSOL)
}

// String renders the balance in display units, e.g. "1.500000000 SOL".
func (l Lamports) String() string {
	return fmt.Sprintf("%.9f SOL", l.SOL())
}

// SOLToLamports converts whole SOL into lamports.
func SOLToLamports(sol uint64) Lamports {
	return Lamports(sol * LamportsPerSOL)
}
