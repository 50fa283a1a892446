package swqos

import (
	"github.com/gagliardetto/solana-go"
)

// Default endpoint per vendor and region. An explicit endpoint override on
// the relay spec always wins over this table.
var defaultEndpoints = map[ServiceKind]map[Region]string{
	KindJito: {
		RegionDefault:   "https://mainnet.block-engine.jito.wtf/api/v1/transactions",
		RegionFrankfurt: "https://frankfurt.mainnet.block-engine.jito.wtf/api/v1/transactions",
		RegionNewYork:   "https://ny.mainnet.block-engine.jito.wtf/api/v1/transactions",
		RegionAmsterdam: "https://amsterdam.mainnet.block-engine.jito.wtf/api/v1/transactions",
		RegionTokyo:     "https://tokyo.mainnet.block-engine.jito.wtf/api/v1/transactions",
		RegionSaltLake:  "https://slc.mainnet.block-engine.jito.wtf/api/v1/transactions",
	},
	KindBloxroute: {
		RegionDefault:    "https://ny.solana.dex.blxrbdn.com",
		RegionNewYork:    "https://ny.solana.dex.blxrbdn.com",
		RegionFrankfurt:  "https://germany.solana.dex.blxrbdn.com",
		RegionAmsterdam:  "https://amsterdam.solana.dex.blxrbdn.com",
		RegionTokyo:      "https://tokyo.solana.dex.blxrbdn.com",
		RegionLosAngeles: "https://la.solana.dex.blxrbdn.com",
	},
	KindNextBlock: {
		RegionDefault:   "https://fra.nextblock.io",
		RegionFrankfurt: "https://fra.nextblock.io",
		RegionNewYork:   "https://ny.nextblock.io",
	},
	KindZeroSlot: {
		RegionDefault:    "https://ny1.0slot.trade",
		RegionNewYork:    "https://ny1.0slot.trade",
		RegionFrankfurt:  "https://de1.0slot.trade",
		RegionAmsterdam:  "https://ams1.0slot.trade",
		RegionTokyo:      "https://jp1.0slot.trade",
		RegionLosAngeles: "https://la1.0slot.trade",
	},
	KindHelius: {
		RegionDefault:   "https://sender.helius-rpc.com/fast",
		RegionSaltLake:  "http://slc-sender.helius-rpc.com/fast",
		RegionNewYork:   "http://ewr-sender.helius-rpc.com/fast",
		RegionFrankfurt: "http://fra-sender.helius-rpc.com/fast",
		RegionAmsterdam: "http://ams-sender.helius-rpc.com/fast",
		RegionTokyo:     "http://tyo-sender.helius-rpc.com/fast",
	},
	KindNode1: {
		RegionDefault:   "https://fra.node1.me",
		RegionFrankfurt: "https://fra.node1.me",
		RegionNewYork:   "https://ny.node1.me",
		RegionAmsterdam: "https://ams.node1.me",
	},
	KindAstralane: {
		RegionDefault:    "http://fr.gateway.astralane.io/irisb",
		RegionFrankfurt:  "http://fr.gateway.astralane.io/irisb",
		RegionNewYork:    "http://ny.gateway.astralane.io/irisb",
		RegionAmsterdam:  "http://ams.gateway.astralane.io/irisb",
		RegionTokyo:      "http://jp.gateway.astralane.io/irisb",
		RegionLosAngeles: "http://lax.gateway.astralane.io/irisb",
	},
	KindStellium: {
		RegionDefault:   "http://fra.stellium.io",
		RegionFrankfurt: "http://fra.stellium.io",
		RegionNewYork:   "http://ny.stellium.io",
		RegionAmsterdam: "http://ams.stellium.io",
	},
	KindBlockRazor: {
		RegionDefault:   "http://frankfurt.solana.blockrazor.xyz/v2/sendTransaction",
		RegionFrankfurt: "http://frankfurt.solana.blockrazor.xyz/v2/sendTransaction",
		RegionNewYork:   "http://newyork.solana.blockrazor.xyz/v2/sendTransaction",
		RegionAmsterdam: "http://amsterdam.solana.blockrazor.xyz/v2/sendTransaction",
		RegionTokyo:     "http://tokyo.solana.blockrazor.xyz/v2/sendTransaction",
	},
}

// Tip accounts per vendor. Vendors missing from this table take no tip.
var tipAccounts = map[ServiceKind][]solana.PublicKey{
	KindJito: {
		solana.MustPublicKeyFromBase58("96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"),
		solana.MustPublicKeyFromBase58("HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe"),
		solana.MustPublicKeyFromBase58("Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"),
		solana.MustPublicKeyFromBase58("ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49"),
		solana.MustPublicKeyFromBase58("DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh"),
		solana.MustPublicKeyFromBase58("ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt"),
		solana.MustPublicKeyFromBase58("DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL"),
		solana.MustPublicKeyFromBase58("3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT"),
	},
	KindBloxroute: {
		solana.MustPublicKeyFromBase58("HWEoBxYs7ssKuudEjzjmpfJVX7Dvi7wescFsVx2L5yoY"),
		solana.MustPublicKeyFromBase58("95cfoy472fcQHaw4tPGBTKpn6ZQnfEPfBgDQx6gcRmRg"),
	},
	KindNextBlock: {
		solana.MustPublicKeyFromBase58("NextbLoCkVtMGcV47JzewQdvBpLqT9TxQFozQkN98pE"),
		solana.MustPublicKeyFromBase58("NexTbLoCkWykbLuB1NkjXgFWkX9oAtcoagQegygXXA2"),
		solana.MustPublicKeyFromBase58("NeXTBLoCKs9F1y5PJS9CKrFNNLU1keHW71rfh7KgA1X"),
		solana.MustPublicKeyFromBase58("NexTBLockJYZ7QD7p2byrUa6df8ndV2WSd8GkbWqfbb"),
	},
	KindZeroSlot: {
		solana.MustPublicKeyFromBase58("Eb2KpSC8uMt9GmzyAEm5Eb1AAAgTjRaXWFjKyFXHZxF3"),
		solana.MustPublicKeyFromBase58("FCjUJZ1qozm1e8romw216qyfQMaaWKxWsuySnumVCCNe"),
		solana.MustPublicKeyFromBase58("ENxTQjqFKz8sfginN1wmurBx5NEosQrmEABgKVBw1GDp"),
		solana.MustPublicKeyFromBase58("6rYLG55Q9RpsPGvqdPNJs4z5WTxJVatMB8zV3WJhs5EK"),
		solana.MustPublicKeyFromBase58("Cix2bHfqPcKcM233mzxbLk14kSggUUiz2A87fJtGivXr"),
	},
	KindHelius: {
		solana.MustPublicKeyFromBase58("4ACfpUFoaSD9bfPdeu6DBt89gB6ENTeHBXCAi87NhDEE"),
		solana.MustPublicKeyFromBase58("D2L6yPZ2FmmmTKPgzaMKdhu6EWZcTpLy1Vhx8uvZe7NZ"),
		solana.MustPublicKeyFromBase58("9bnz4RShgq1hAnLnZbP8kbgBg1kEmcJBYQq3gQbmnSta"),
		solana.MustPublicKeyFromBase58("5VY91ws6B2hMmBFRsXkoAAdsPHBJwRfBht4DXox3xkwn"),
	},
	KindNode1: {
		solana.MustPublicKeyFromBase58("node1PqAa3BWWzUnTHVbw8NJHC874zn9ngAkXjgWEej"),
		solana.MustPublicKeyFromBase58("node1UzzTxAAeBTpfZkQPJXBAqixsbdth11ba1NXLBG"),
		solana.MustPublicKeyFromBase58("node1Qm1bV4fwYnCurqKT5HNjxxGsLLwmqZCvuxwpZQ"),
	},
	KindAstralane: {
		solana.MustPublicKeyFromBase58("astrazznxsGUhWShqgNtAdfrzP2G83DzcWVJDxwV9bF"),
		solana.MustPublicKeyFromBase58("astra4uejePWneqNaJKuFFA8oonqCE1sqF6b45kDMZm"),
		solana.MustPublicKeyFromBase58("astra9xWY93QyfG6yM8zwsKsRodscjQ2uU2HKNL5prk"),
		solana.MustPublicKeyFromBase58("astraRVUuTHjpwEVvNBeQEgwYx9w9CFyfxjYoobCZhL"),
	},
	KindBlockRazor: {
		solana.MustPublicKeyFromBase58("FjmZZrFvhnqqb9ThCuMVnENaM3JGVuGWNyCAxRJcFpg9"),
		solana.MustPublicKeyFromBase58("6No2i3aawzHsjtThw81iq1EXPJN6rh8eSJCLaYZfKDTG"),
		solana.MustPublicKeyFromBase58("A9cWowVAiHe9pJfKAj3TJiN9VpbzMUq6E4kEvf5mUT22"),
		solana.MustPublicKeyFromBase58("Gywj98ophM7GmkDdaWs4isqZnDdFCW7B46TXmKfvyqSm"),
	},
}

// resolveEndpoint applies the override-wins rule.
func resolveEndpoint(kind ServiceKind, region Region, override, rpcURL string) (string, error) {
	if override != "" {
		return override, nil
	}
	if kind == KindDefault {
		if rpcURL == "" {
			return "", errDefaultNeedsRPCURL
		}
		return rpcURL, nil
	}
	regions := defaultEndpoints[kind]
	if url, ok := regions[region]; ok {
		return url, nil
	}
	return regions[RegionDefault], nil
}
