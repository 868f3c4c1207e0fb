/*
Package rks decodes and encodes rhythm game cloud saves and derives the
player rating from the decoded score history.

Data Structure Documentation

Archive

A save is a zip container with one member per record. Each member holds
a single format byte followed by an AES-256-CBC ciphertext with PKCS#7
padding. The format byte selects the layout of the decrypted plaintext.

    Member layout:
    +-----------------+-------------------------------+
    | format (1 byte) | ciphertext (n * 16 bytes)     |
    +-----------------+-------------------------------+

Members are written in the order user, settings, gameProgress, gameKey,
gameRecord. Unknown members are kept and written back unchanged.

Plaintext

Plaintexts are read with a cursor that mixes byte-aligned fields and bit
runs. Multi-byte numbers are little-endian. A bit run fills a byte LSB
first; the next byte-aligned field starts on a fresh byte, so a run of
fewer than 8 bits pads its byte with zeros.

    Bits followed by a byte:
    +-------------------------------+----------+
    | b0 b1 b2 0 0 0 0 0 (1 byte)   | uint8    |
    +-------------------------------+----------+

Integers marked varint use one byte up to 127 and two bytes up to 32767.
The first byte carries the low 7 bits and a continuation flag, the second
byte the remaining bits.

    VarInt:
    +-----------------------+--------------------------+
    | 1vvvvvvv (low 7 bits) | vvvvvvvv (bits 7 .. 14)  |
    +-----------------------+--------------------------+

Strings are a varint byte length followed by UTF-8 bytes.

Records

    user@0x01:          showPlayerId (1) | selfIntro | avatar | background
    settings@0x01:      4 bits | deviceName | 6 x float32
    gameProgress@0x03:  4 bits | completed | songUpdateInfo (varint) | challengeModeRank (2)
                        | money (5 varints) | 5 flag bytes | 3 bits | 1 flag byte
    gameProgress@0x04:  gameProgress@0x03 | 1 flag byte
    gameKey@0x02:       count (varint) | keys | 2 flag bytes
    gameKey@0x03:       gameKey@0x02 | 2 bytes
    gameRecord@0x01:    count (varint) | songs

The layouts of keys and songs are documented on Key and GameRecord.

Ranking

Every rated tier contributes ((acc - 55) / 45)^2 * difficulty. The best
list holds up to 3 perfect results ordered by difficulty, then up to 33
other results ordered by rating. RKS is the sum of the perfect results and
the first 27 others, divided by 30.
*/
package rks
