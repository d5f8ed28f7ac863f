package pot

// Share calcula a cota pari-mutuel de cada acerto perfeito.
// Divisão inteira: o resto do pool não é distribuído. Sem vencedores a cota
// é zero e o pool fica retido no evento.
func Share(poolPrize int64, winners int) int64 {
	if winners <= 0 || poolPrize <= 0 {
		return 0
	}
	return poolPrize / int64(winners)
}
