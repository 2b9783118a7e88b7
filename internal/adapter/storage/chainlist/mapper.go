package chainlist

import (
	dto "namereg/internal/adapter/storage/chainlist/dto"
	"namereg/internal/domain/entity"

	"go.uber.org/zap"
)

// toChainInfos converts raw chain list entries to catalog entries, keyed later by
// the decimal form of their chain id. Entries without a usable id are skipped.
func toChainInfos(rawChains []dto.ChainRaw, logger *zap.Logger) []entity.ChainInfo {
	if rawChains == nil {
		return nil
	}
	infos := make([]entity.ChainInfo, 0, len(rawChains))
	for _, raw := range rawChains {
		chainID, err := entity.NormalizeChainID(raw.ChainID.String())
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping chain with invalid id during mapping",
					zap.String("rawChainId", raw.ChainID.String()),
					zap.String("name", raw.Name),
					zap.Error(err))
			}
			continue
		}
		infos = append(infos, entity.ChainInfo{
			ChainID:        chainID,
			DisplayName:    raw.Name,
			ShortName:      raw.ShortName,
			CurrencySymbol: raw.Currency.Symbol,
		})
	}
	return infos
}
