package board

import "math/bits"

// Ray directions. The first four walk towards higher square indices and
// dir+4 is always the opposite direction.
const (
	dirNorth = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthWest
	dirSouthEast
)

var dirOffsets = [8][2]int{
	dirNorth:     {1, 0},
	dirEast:      {0, 1},
	dirNorthEast: {1, 1},
	dirNorthWest: {1, -1},
	dirSouth:     {-1, 0},
	dirWest:      {0, -1},
	dirSouthWest: {-1, -1},
	dirSouthEast: {-1, 1},
}

const (
	FileA uint64 = 0x0101010101010101
	FileH uint64 = FileA << 7
	Rank1 uint64 = 0xff
	Rank2 uint64 = Rank1 << 8
	Rank3 uint64 = Rank1 << 16
	Rank4 uint64 = Rank1 << 24
	Rank5 uint64 = Rank1 << 32
	Rank6 uint64 = Rank1 << 40
	Rank7 uint64 = Rank1 << 48
	Rank8 uint64 = Rank1 << 56

	// LightSquares holds b1, d1, ... (a1 is dark).
	LightSquares uint64 = 0x55aa55aa55aa55aa
)

var knightAttacks [64]uint64
var kingAttacks [64]uint64

// pawnAttacks[side][sq] holds the squares a pawn of side attacks from sq.
var pawnAttacks [2][64]uint64

// rays[dir][sq] excludes the origin square.
var rays [8][64]uint64

// between[a][b] holds the squares strictly between two aligned squares.
var between [64][64]uint64

// through[a][b] holds the whole line through two aligned squares, edge to edge.
var through [64][64]uint64

func init() {
	initLeaperTables()
	initRays()
	initLineTables()
	initZobrist()
}

func onBoard(rank, file int) bool { return rank >= 0 && rank < 8 && file >= 0 && file < 8 }

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for _, off := range knightOffsets {
			if onBoard(rank+off[0], file+off[1]) {
				knightAttacks[sq] |= 1 << uint((rank+off[0])*8+file+off[1])
			}
		}
		for _, off := range dirOffsets {
			if onBoard(rank+off[0], file+off[1]) {
				kingAttacks[sq] |= 1 << uint((rank+off[0])*8+file+off[1])
			}
		}
		for _, df := range [2]int{-1, 1} {
			if onBoard(rank+1, file+df) {
				pawnAttacks[White][sq] |= 1 << uint((rank+1)*8+file+df)
			}
			if onBoard(rank-1, file+df) {
				pawnAttacks[Black][sq] |= 1 << uint((rank-1)*8+file+df)
			}
		}
	}
}

func initRays() {
	for dir, off := range dirOffsets {
		for sq := 0; sq < 64; sq++ {
			rank, file := sq/8+off[0], sq%8+off[1]
			for onBoard(rank, file) {
				rays[dir][sq] |= 1 << uint(rank*8+file)
				rank += off[0]
				file += off[1]
			}
		}
	}
}

func initLineTables() {
	for a := 0; a < 64; a++ {
		for dir := 0; dir < 8; dir++ {
			ray := rays[dir][a]
			for r := ray; r != 0; r &= r - 1 {
				b := bits.TrailingZeros64(r)
				between[a][b] = ray &^ rays[dir][b] &^ (1 << uint(b))
				opposite := (dir + 4) % 8
				through[a][b] = ray | rays[opposite][a] | 1<<uint(a)
			}
		}
	}
}

// Bit returns the singleton set for sq.
func Bit(sq Square) uint64 { return 1 << uint(sq) }

// PopLSB removes the lowest set square from *bb and returns it.
func PopLSB(bb *uint64) Square {
	sq := bits.TrailingZeros64(*bb)
	*bb &= *bb - 1
	return Square(sq)
}

// LSB returns the lowest set square of a non-empty set.
func LSB(bb uint64) Square { return Square(bits.TrailingZeros64(bb)) }

func Count(bb uint64) int { return bits.OnesCount64(bb) }

// Between returns the squares strictly between a and b, or 0 when they do not share a line.
func Between(a, b Square) uint64 { return between[a][b] }

// Through returns the full line through a and b, or 0 when they do not share a line.
func Through(a, b Square) uint64 { return through[a][b] }

func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

func PawnAttacks(side Side, sq Square) uint64 { return pawnAttacks[side][sq] }

// PawnAttacksSet returns every square attacked by the pawns in set.
func PawnAttacksSet(side Side, set uint64) uint64 {
	if side == White {
		return (set&^FileA)<<7 | (set&^FileH)<<9
	}
	return (set&^FileA)>>9 | (set&^FileH)>>7
}

func rayAttack(dir int, sq Square, occ uint64) uint64 {
	ray := rays[dir][sq]
	blockers := ray & occ
	if blockers == 0 {
		return ray
	}
	var first int
	if dir < dirSouth {
		first = bits.TrailingZeros64(blockers)
	} else {
		first = 63 - bits.LeadingZeros64(blockers)
	}
	return ray &^ rays[dir][first]
}

// RookAttacks returns orthogonal slider attacks from sq, stopping at (and including) the first blocker.
func RookAttacks(sq Square, occ uint64) uint64 {
	return rayAttack(dirNorth, sq, occ) | rayAttack(dirSouth, sq, occ) |
		rayAttack(dirEast, sq, occ) | rayAttack(dirWest, sq, occ)
}

// BishopAttacks returns diagonal slider attacks from sq.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return rayAttack(dirNorthEast, sq, occ) | rayAttack(dirNorthWest, sq, occ) |
		rayAttack(dirSouthEast, sq, occ) | rayAttack(dirSouthWest, sq, occ)
}

func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}
